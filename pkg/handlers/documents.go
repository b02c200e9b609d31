package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/services"
)

// SummariseDocumentRequest is the body for POST /api/summarise-document.
type SummariseDocumentRequest struct {
	Text string `json:"text"`
}

// SummariseDocumentResponse carries the narrative plus the structured
// block; structured is null when the model's JSON could not be parsed.
type SummariseDocumentResponse struct {
	Text       string                    `json:"text"`
	Structured *services.DocumentSummary `json:"structured"`
}

// AnalyseComplaintRequest is the body for POST /api/analyse-complaint.
type AnalyseComplaintRequest struct {
	Text string `json:"text"`
}

// AnalyseComplaintResponse carries the acknowledgement draft plus
// extracted complaint metadata (null on parse failure).
type AnalyseComplaintResponse struct {
	Draft string                  `json:"draft"`
	Info  *services.ComplaintInfo `json:"info"`
}

// DocumentHandler handles the structured-output AI routes.
type DocumentHandler struct {
	documentService services.DocumentService
	userService     services.UserService
	agencyID        uuid.UUID
	logger          *zap.Logger
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(
	documentService services.DocumentService,
	userService services.UserService,
	agencyID uuid.UUID,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		userService:     userService,
		agencyID:        agencyID,
		logger:          logger,
	}
}

// RegisterRoutes registers the document handler's routes on the given mux.
func (h *DocumentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/summarise-document", h.Summarise)
	mux.HandleFunc("POST /api/analyse-complaint", h.AnalyseComplaint)
}

// Summarise handles POST /api/summarise-document.
func (h *DocumentHandler) Summarise(w http.ResponseWriter, r *http.Request) {
	var req SummariseDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	result, err := h.documentService.SummarizeDocument(r.Context(), h.agencyID, user, req.Text)
	if err != nil {
		status := StatusForError(err)
		h.logger.Error("Document summary failed", zap.Int("status", status), zap.Error(err))
		_ = ErrorResponse(w, status, "failed to summarise document")
		return
	}

	response := SummariseDocumentResponse{Text: result.Text, Structured: result.Structured}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// AnalyseComplaint handles POST /api/analyse-complaint.
func (h *DocumentHandler) AnalyseComplaint(w http.ResponseWriter, r *http.Request) {
	var req AnalyseComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	user, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	result, err := h.documentService.AnalyzeComplaint(r.Context(), h.agencyID, user, req.Text)
	if err != nil {
		status := StatusForError(err)
		h.logger.Error("Complaint analysis failed", zap.Int("status", status), zap.Error(err))
		_ = ErrorResponse(w, status, "failed to analyse complaint")
		return
	}

	response := AnalyseComplaintResponse{Draft: result.Draft, Info: result.Info}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *DocumentHandler) resolveUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	email := strings.TrimSpace(r.Header.Get("X-User-Email"))
	if email == "" {
		_ = ErrorResponse(w, http.StatusUnauthorized, "X-User-Email header is required")
		return uuid.Nil, false
	}

	user, err := h.userService.ResolveByEmail(r.Context(), email, h.agencyID)
	if err != nil {
		h.logger.Error("Failed to resolve user", zap.String("email", email), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "failed to resolve user")
		return uuid.Nil, false
	}

	return user.ID, true
}
