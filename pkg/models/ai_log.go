package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AILog is an append-only audit row written after each AI call.
// A failed insert is logged and swallowed; it never fails the request.
type AILog struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	AgencyID  uuid.UUID       `json:"agency_id"`
	Question  string          `json:"question"`
	Response  string          `json:"response"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// AILogMetadata is the structured shape serialized into AILog.Metadata.
type AILogMetadata struct {
	Route          string   `json:"route"`
	Category       string   `json:"category,omitempty"`
	Urgency        string   `json:"urgency,omitempty"`
	BuildingID     string   `json:"building_id,omitempty"`
	UnitCount      int      `json:"unit_count,omitempty"`
	Degraded       bool     `json:"degraded,omitempty"`
	Missing        []string `json:"missing,omitempty"`
	PromptTokens   int      `json:"prompt_tokens,omitempty"`
	ResponseTokens int      `json:"response_tokens,omitempty"`
	ElapsedMillis  int64    `json:"elapsed_ms,omitempty"`
}
