package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/models"
	"github.com/blociq/blociq-engine/pkg/services"
)

// GenerateAnswerRequest is the body for POST /api/generate-answer.
type GenerateAnswerRequest struct {
	Question   string `json:"question"`
	BuildingID string `json:"buildingId"`
}

// GenerateDraftRequest is the body for POST /api/generate-draft.
type GenerateDraftRequest struct {
	EmailID string `json:"emailId"`
}

// GenerateHandler handles the portal's answer and draft generation
// routes. Both identify the requesting user via X-User-Email, same as
// the Outlook routes.
type GenerateHandler struct {
	askService   services.AskService
	inboxService services.InboxService
	userService  services.UserService
	agencyID     uuid.UUID
	logger       *zap.Logger
}

// NewGenerateHandler creates a new generate handler.
func NewGenerateHandler(
	askService services.AskService,
	inboxService services.InboxService,
	userService services.UserService,
	agencyID uuid.UUID,
	logger *zap.Logger,
) *GenerateHandler {
	return &GenerateHandler{
		askService:   askService,
		inboxService: inboxService,
		userService:  userService,
		agencyID:     agencyID,
		logger:       logger,
	}
}

// RegisterRoutes registers the generate handler's routes on the given mux.
func (h *GenerateHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/generate-answer", h.GenerateAnswer)
	mux.HandleFunc("POST /api/generate-draft", h.GenerateDraft)
}

// GenerateAnswer handles POST /api/generate-answer.
func (h *GenerateHandler) GenerateAnswer(w http.ResponseWriter, r *http.Request) {
	var req GenerateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "question is required")
		return
	}

	buildingID, err := uuid.Parse(req.BuildingID)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "buildingId must be a UUID")
		return
	}

	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	result, err := h.askService.AnswerForBuilding(r.Context(), buildingID, user.ID, req.Question)
	if err != nil {
		status := StatusForError(err)
		h.logger.Error("Generate answer failed",
			zap.String("building_id", buildingID.String()),
			zap.Int("status", status),
			zap.Error(err))
		if status == http.StatusNotFound {
			_ = ErrorResponse(w, status, "building not found")
		} else {
			_ = ErrorResponse(w, status, "failed to generate answer")
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"answer": result.Answer}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GenerateDraft handles POST /api/generate-draft.
func (h *GenerateHandler) GenerateDraft(w http.ResponseWriter, r *http.Request) {
	var req GenerateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emailID, err := uuid.Parse(req.EmailID)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "emailId must be a UUID")
		return
	}

	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	result, err := h.inboxService.GenerateDraft(r.Context(), emailID, user.ID)
	if err != nil {
		status := StatusForError(err)
		h.logger.Error("Generate draft failed",
			zap.String("email_id", emailID.String()),
			zap.Int("status", status),
			zap.Error(err))
		if status == http.StatusNotFound {
			_ = ErrorResponse(w, status, "email not found")
		} else {
			_ = ErrorResponse(w, status, "failed to generate draft")
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"draft": result.Draft}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *GenerateHandler) resolveUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	email := strings.TrimSpace(r.Header.Get("X-User-Email"))
	if email == "" {
		_ = ErrorResponse(w, http.StatusUnauthorized, "X-User-Email header is required")
		return nil, false
	}

	user, err := h.userService.ResolveByEmail(r.Context(), email, h.agencyID)
	if err != nil {
		h.logger.Error("Failed to resolve user", zap.String("email", email), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "failed to resolve user")
		return nil, false
	}

	return user, true
}
