package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleTemplate is a saved raw schedule-text blob that can be re-parsed
// and re-imported later without pasting the text again
type ScheduleTemplate struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
