package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/services"
)

// AskRequest is the body for POST /api/ask: a question about one known
// building.
type AskRequest struct {
	Question   string `json:"question"`
	BuildingID string `json:"buildingId"`
	UserID     string `json:"userId"`
}

// AskResponse is the success body for POST /api/ask.
type AskResponse struct {
	Answer string `json:"answer"`
}

// AskHandler handles the portal's building-scoped ask route.
type AskHandler struct {
	askService services.AskService
	logger     *zap.Logger
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(askService services.AskService, logger *zap.Logger) *AskHandler {
	return &AskHandler{askService: askService, logger: logger}
}

// RegisterRoutes registers the ask handler's routes on the given mux.
func (h *AskHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/ask", h.Ask)
}

// Ask handles POST /api/ask. Unlike the Outlook routes, the building is
// referenced by ID and must exist.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
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

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "userId must be a UUID")
		return
	}

	result, err := h.askService.AnswerForBuilding(r.Context(), buildingID, userID, req.Question)
	if err != nil {
		status := StatusForError(err)
		h.logger.Error("Ask failed",
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

	if err := WriteJSON(w, http.StatusOK, AskResponse{Answer: result.Answer}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
