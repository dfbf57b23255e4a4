package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColors is the palette used when a category is created
// without an explicit color. Rotation is by creation order.
var DefaultCategoryColors = []string{
	"#3b82f6", "#8b5cf6", "#ec4899", "#f59e0b",
	"#10b981", "#06b6d4", "#6366f1", "#ef4444",
}

// Category groups related activities
type Category struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ColorForIndex returns the default palette color for the nth category
func ColorForIndex(n int) string {
	if n < 0 {
		n = 0
	}
	return DefaultCategoryColors[n%len(DefaultCategoryColors)]
}
