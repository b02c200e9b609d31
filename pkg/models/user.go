package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an agency staff member. Users are auto-created on first
// request when the Outlook add-in presents an unseen email address.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	AgencyID  uuid.UUID `json:"agency_id"`
	Role      string    `json:"role"` // 'manager', 'director', 'assistant'
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role constants for agency users.
const (
	RoleManager   = "manager"
	RoleDirector  = "director"
	RoleAssistant = "assistant"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleManager, RoleDirector, RoleAssistant}

// IsValidRole checks if the given role is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
