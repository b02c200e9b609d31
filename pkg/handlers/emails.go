package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/models"
	"github.com/blociq/blociq-engine/pkg/services"
)

// EmailListResponse for GET /api/emails.
type EmailListResponse struct {
	Emails []*models.IncomingEmail `json:"emails"`
	Total  int                     `json:"total"`
}

// IngestEmailRequest is the body for POST /api/emails.
type IngestEmailRequest struct {
	BuildingID  string `json:"buildingId,omitempty"`
	FromName    string `json:"from_name"`
	FromAddress string `json:"from_address"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	ReceivedAt  string `json:"received_at,omitempty"`
}

// FlagRequest is the body for the mark-read / mark-handled routes. The
// flag defaults to true when the body is omitted.
type FlagRequest struct {
	Value *bool `json:"value,omitempty"`
}

// EmailHandler handles inbox HTTP requests.
type EmailHandler struct {
	inboxService services.InboxService
	agencyID     uuid.UUID
	logger       *zap.Logger
}

// NewEmailHandler creates a new email handler.
func NewEmailHandler(inboxService services.InboxService, agencyID uuid.UUID, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{
		inboxService: inboxService,
		agencyID:     agencyID,
		logger:       logger,
	}
}

// RegisterRoutes registers the email handler's routes on the given mux.
func (h *EmailHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/emails", h.List)
	mux.HandleFunc("POST /api/emails", h.Ingest)
	mux.HandleFunc("GET /api/emails/{id}", h.Get)
	mux.HandleFunc("POST /api/emails/{id}/mark-read", h.MarkRead)
	mux.HandleFunc("POST /api/emails/{id}/mark-handled", h.MarkHandled)
	mux.HandleFunc("DELETE /api/emails/{id}", h.Delete)
}

// List handles GET /api/emails. ?unhandled=true filters to open items.
func (h *EmailHandler) List(w http.ResponseWriter, r *http.Request) {
	unhandledOnly := r.URL.Query().Get("unhandled") == "true"

	emails, err := h.inboxService.List(r.Context(), h.agencyID, unhandledOnly)
	if err != nil {
		h.logger.Error("Failed to list emails", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "failed to list emails")
		return
	}

	response := EmailListResponse{Emails: emails, Total: len(emails)}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Ingest handles POST /api/emails: store a new inbox row and tag it
// with its triage labels.
func (h *EmailHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.FromAddress == "" || req.Subject == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "from_address and subject are required")
		return
	}

	email := &models.IncomingEmail{
		AgencyID:    h.agencyID,
		FromName:    req.FromName,
		FromAddress: req.FromAddress,
		Subject:     req.Subject,
		Body:        req.Body,
		ReceivedAt:  time.Now().UTC(),
	}

	if req.BuildingID != "" {
		buildingID, err := uuid.Parse(req.BuildingID)
		if err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "buildingId must be a UUID")
			return
		}
		email.BuildingID = &buildingID
	}

	if req.ReceivedAt != "" {
		receivedAt, err := time.Parse(time.RFC3339, req.ReceivedAt)
		if err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "received_at must be RFC 3339")
			return
		}
		email.ReceivedAt = receivedAt
	}

	stored, err := h.inboxService.Ingest(r.Context(), email)
	if err != nil {
		h.logger.Error("Failed to ingest email", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "failed to ingest email")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, stored); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/emails/{id}.
func (h *EmailHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	email, err := h.inboxService.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, id, err, "failed to get email")
		return
	}

	if err := WriteJSON(w, http.StatusOK, email); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// MarkRead handles POST /api/emails/{id}/mark-read.
func (h *EmailHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.inboxService.MarkRead, "failed to mark email read")
}

// MarkHandled handles POST /api/emails/{id}/mark-handled.
func (h *EmailHandler) MarkHandled(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.inboxService.MarkHandled, "failed to mark email handled")
}

// Delete handles DELETE /api/emails/{id}.
func (h *EmailHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.inboxService.Delete(r.Context(), id); err != nil {
		h.writeError(w, id, err, "failed to delete email")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// setFlag is the shared body of the mark-read and mark-handled routes.
func (h *EmailHandler) setFlag(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, id uuid.UUID, value bool) error, message string) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	value := true
	if r.Body != nil && r.ContentLength != 0 {
		var req FlagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Value != nil {
			value = *req.Value
		}
	}

	if err := set(r.Context(), id, value); err != nil {
		h.writeError(w, id, err, message)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *EmailHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "email id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *EmailHandler) writeError(w http.ResponseWriter, id uuid.UUID, err error, message string) {
	status := StatusForError(err)
	h.logger.Error(message,
		zap.String("email_id", id.String()),
		zap.Int("status", status),
		zap.Error(err))
	if status == http.StatusNotFound {
		_ = ErrorResponse(w, status, "email not found")
		return
	}
	_ = ErrorResponse(w, status, message)
}
