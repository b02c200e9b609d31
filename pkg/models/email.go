package models

import (
	"time"

	"github.com/google/uuid"
)

// IncomingEmail is an inbox row surfaced to the triage UI. It is mutated
// via user actions (mark handled/read, delete) and enriched with triage
// tags once classified.
type IncomingEmail struct {
	ID          uuid.UUID  `json:"id"`
	AgencyID    uuid.UUID  `json:"agency_id"`
	BuildingID  *uuid.UUID `json:"building_id,omitempty"`
	FromName    string     `json:"from_name"`
	FromAddress string     `json:"from_address"`
	Subject     string     `json:"subject"`
	Body        string     `json:"body"`
	Tags        []string   `json:"tags"`
	IsRead      bool       `json:"is_read"`
	IsHandled   bool       `json:"is_handled"`
	ReceivedAt  time.Time  `json:"received_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CommunicationLog records a past interaction with a building or
// leaseholder, fed into the AI context as history.
type CommunicationLog struct {
	ID         uuid.UUID  `json:"id"`
	BuildingID uuid.UUID  `json:"building_id"`
	UnitID     *uuid.UUID `json:"unit_id,omitempty"`
	Direction  string     `json:"direction"` // 'inbound', 'outbound'
	Subject    string     `json:"subject"`
	Summary    string     `json:"summary"`
	CreatedAt  time.Time  `json:"created_at"`
}
