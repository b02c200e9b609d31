package models

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceItem is a tracked regulatory obligation for a building
// (fire risk assessment, gas safety, EICR, etc.).
type ComplianceItem struct {
	ID         uuid.UUID  `json:"id"`
	BuildingID uuid.UUID  `json:"building_id"`
	ItemName   string     `json:"item_name"`
	Status     string     `json:"status"` // 'compliant', 'overdue', 'due_soon', 'missing'
	DueDate    *time.Time `json:"due_date,omitempty"`
	Priority   string     `json:"priority"` // 'high', 'medium', 'low'
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ComplianceItem status values.
const (
	ComplianceStatusCompliant = "compliant"
	ComplianceStatusOverdue   = "overdue"
	ComplianceStatusDueSoon   = "due_soon"
	ComplianceStatusMissing   = "missing"
)

// ComplianceSummary is the aggregate view the context builder prefers.
// When the aggregate query fails the caller falls back to a plain scan
// of compliance_items and computes the counts itself.
type ComplianceSummary struct {
	BuildingID uuid.UUID         `json:"building_id"`
	Total      int               `json:"total"`
	Overdue    int               `json:"overdue"`
	DueSoon    int               `json:"due_soon"`
	Items      []*ComplianceItem `json:"items"`
}
