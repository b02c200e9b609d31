package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/blociq/blociq-engine/pkg/apperrors"
	"github.com/blociq/blociq-engine/pkg/llm"
)

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// ErrorResponse writes the JSON error body used by the non-Outlook
// routes.
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// OutlookError writes the {ok:false, error} body the Outlook add-in
// expects on every failure.
func OutlookError(w http.ResponseWriter, statusCode int, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":    false,
		"error": message,
	})
}

// StatusForError maps service-layer errors to HTTP status codes. An
// upstream chat failure is a 503 so callers can distinguish "our bug"
// from "provider down".
func StatusForError(err error) int {
	var llmErr *llm.Error
	switch {
	case errors.Is(err, apperrors.ErrMissingQuestion),
		errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrMissingEmail):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrBuildingMissing):
		return http.StatusNotFound
	case errors.As(err, &llmErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
