package models

import (
	"time"

	"github.com/google/uuid"
)

// Building is a managed block, scoped to the agency that manages it.
// IsHRB marks a Higher-Risk Building under the Building Safety Act.
type Building struct {
	ID        uuid.UUID `json:"id"`
	AgencyID  uuid.UUID `json:"agency_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	IsHRB     bool      `json:"is_hrb"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BuildingUpdate carries the mutable fields for PUT/PATCH /api/buildings/{id}.
// Nil pointers mean "leave unchanged" (PATCH semantics).
type BuildingUpdate struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	IsHRB   *bool   `json:"is_hrb,omitempty"`
}

// Unit is a single demised dwelling within a building.
type Unit struct {
	ID         uuid.UUID `json:"id"`
	BuildingID uuid.UUID `json:"building_id"`
	UnitNumber string    `json:"unit_number"`
	Floor      string    `json:"floor,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Leaseholder is the long-lease owner of a unit (not a rental tenant).
type Leaseholder struct {
	ID        uuid.UUID `json:"id"`
	UnitID    uuid.UUID `json:"unit_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
