// Package applications implements the campaign application domain.
// It provides types, data access, and business logic for submitting
// applications, role-gated visibility, and audited status updates.
package applications

import (
	"time"

	"github.com/google/uuid"
)

// Application represents a campaign application owned by an organizer.
// UpdatedBy records who authorized the most recent role-gated update:
// "ADMIN" or an organizer id.
type Application struct {
	ID          uuid.UUID `json:"id"`
	OrganizerID uuid.UUID `json:"organizer_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	GoalAmount  int64     `json:"goal_amount"`
	Status      Status    `json:"status"`
	UpdatedBy   *string   `json:"updated_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to submit a new application.
// Ownership is derived from the creator, never from the payload.
type CreateCommand struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	GoalAmount  int64  `json:"goal_amount"`
}

// UpdateCommand is a partial patch. Nil fields are left unchanged.
// Status changes are validated against the transition table.
type UpdateCommand struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	GoalAmount  *int64  `json:"goal_amount,omitempty"`
	Status      *Status `json:"status,omitempty"`
}
