package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/prompts"
	"github.com/blociq/blociq-engine/pkg/services"
)

// OutlookAskRequest is the body posted by the Outlook add-in. Building
// and Unit are free text lifted from the open email; either may be
// empty.
type OutlookAskRequest struct {
	Question   string `json:"question"`
	Building   string `json:"building,omitempty"`
	Unit       string `json:"unit,omitempty"`
	SenderName string `json:"sender_name,omitempty"`
}

// Phase2Features carries the triage labels shown in the add-in pane.
type Phase2Features struct {
	Category  string   `json:"category"`
	Urgency   string   `json:"urgency"`
	Sentiment string   `json:"sentiment"`
	Tags      []string `json:"tags"`
}

// Phase3Intelligence carries entity-match and degradation metadata so
// the caller can tell "no data" apart from "fetch failed".
type Phase3Intelligence struct {
	BuildingMatched bool     `json:"building_matched"`
	UnitsMatched    int      `json:"units_matched"`
	Degraded        bool     `json:"degraded"`
	Missing         []string `json:"missing"`
}

// OutlookAskResponse is the success body for /api/ask-ai-outlook-blociq.
type OutlookAskResponse struct {
	OK                 bool               `json:"ok"`
	Answer             string             `json:"answer"`
	Context            string             `json:"context"`
	Phase2Features     Phase2Features     `json:"phase2_features"`
	Phase3Intelligence Phase3Intelligence `json:"phase3_intelligence"`
}

// OutlookLiteResponse is the success body for /api/ask-ai-outlook.
type OutlookLiteResponse struct {
	OK               bool     `json:"ok"`
	Answer           string   `json:"answer"`
	Context          string   `json:"context"`
	SuggestedQueries []string `json:"suggested_queries"`
}

// OutlookHandler handles the Outlook add-in ask routes.
type OutlookHandler struct {
	askService  services.AskService
	userService services.UserService
	agencyID    uuid.UUID
	logger      *zap.Logger
}

// NewOutlookHandler creates a new Outlook handler. The agency ID scopes
// entity lookups and auto-created users for this deployment.
func NewOutlookHandler(
	askService services.AskService,
	userService services.UserService,
	agencyID uuid.UUID,
	logger *zap.Logger,
) *OutlookHandler {
	return &OutlookHandler{
		askService:  askService,
		userService: userService,
		agencyID:    agencyID,
		logger:      logger,
	}
}

// RegisterRoutes registers the Outlook handler's routes on the given mux.
func (h *OutlookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/ask-ai-outlook-blociq", h.AskFull)
	mux.HandleFunc("POST /api/ask-ai-outlook", h.AskLite)
}

// AskFull handles POST /api/ask-ai-outlook-blociq.
func (h *OutlookHandler) AskFull(w http.ResponseWriter, r *http.Request) {
	result, ok := h.ask(w, r, "/api/ask-ai-outlook-blociq", services.TempOutlook, services.MaxTokensOutlook)
	if !ok {
		return
	}

	response := OutlookAskResponse{
		OK:      true,
		Answer:  result.Answer,
		Context: result.ContextText,
		Phase2Features: Phase2Features{
			Category:  string(result.Triage.Category),
			Urgency:   result.Triage.Urgency,
			Sentiment: result.Triage.Sentiment,
			Tags:      result.Triage.Tags(),
		},
		Phase3Intelligence: Phase3Intelligence{
			BuildingMatched: result.Context.Building != nil,
			UnitsMatched:    len(result.Context.Units),
			Degraded:        result.Degraded,
			Missing:         missingOrEmpty(result.Missing),
		},
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// AskLite handles POST /api/ask-ai-outlook.
func (h *OutlookHandler) AskLite(w http.ResponseWriter, r *http.Request) {
	result, ok := h.ask(w, r, "/api/ask-ai-outlook", services.TempOutlook, services.MaxTokensOutlook)
	if !ok {
		return
	}

	response := OutlookLiteResponse{
		OK:               true,
		Answer:           result.Answer,
		Context:          result.ContextText,
		SuggestedQueries: prompts.SuggestedQueries(result.Triage.Category),
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ask runs the shared validation and pipeline for both Outlook routes.
// Validation order is part of the contract: a missing question is
// rejected before the email header is read, and both are checked before
// any database or model work happens.
func (h *OutlookHandler) ask(w http.ResponseWriter, r *http.Request, route string, temperature float64, maxTokens int) (*services.AskResult, bool) {
	var req OutlookAskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = OutlookError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	if strings.TrimSpace(req.Question) == "" {
		_ = OutlookError(w, http.StatusBadRequest, "question is required")
		return nil, false
	}

	email := strings.TrimSpace(r.Header.Get("X-User-Email"))
	if email == "" {
		_ = OutlookError(w, http.StatusUnauthorized, "X-User-Email header is required")
		return nil, false
	}

	user, err := h.userService.ResolveByEmail(r.Context(), email, h.agencyID)
	if err != nil {
		h.logger.Error("Failed to resolve user", zap.String("email", email), zap.Error(err))
		_ = OutlookError(w, http.StatusInternalServerError, "failed to resolve user")
		return nil, false
	}

	result, err := h.askService.Answer(r.Context(), services.AskRequest{
		Question:    req.Question,
		BuildingRef: req.Building,
		UnitRef:     req.Unit,
		SenderName:  req.SenderName,
		AgencyID:    h.agencyID,
		UserID:      user.ID,
		Route:       route,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		status := StatusForError(err)
		h.logger.Error("Ask pipeline failed",
			zap.String("route", route),
			zap.Int("status", status),
			zap.Error(err))
		_ = OutlookError(w, status, "failed to generate answer")
		return nil, false
	}

	return result, true
}

func missingOrEmpty(missing []string) []string {
	if missing == nil {
		return []string{}
	}
	return missing
}
