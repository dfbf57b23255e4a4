package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	ProviderID    *string   `json:"provider_id,omitempty"`
	Name          *string   `json:"name,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	// LastActiveAt is bumped on each authenticated request; the worker's
	// recurrence sweep only considers users active within the sweep window.
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
