package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityStatus represents the status of an activity
type ActivityStatus string

const (
	ActivityStatusNotStarted ActivityStatus = "not-started"
	ActivityStatusInProgress ActivityStatus = "in-progress"
	ActivityStatusCompleted  ActivityStatus = "completed"
)

// Cadence represents how often an activity recurs
type Cadence string

const (
	CadenceOneTime Cadence = "one-time"
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

// Priority represents the priority tag of an activity
type Priority string

const (
	PriorityUrgent    Priority = "urgent"
	PriorityImportant Priority = "important"
	PriorityHigh      Priority = "high"
	PriorityLow       Priority = "low"
)

// ActivityType distinguishes regular activities from lookup-schedule templates
type ActivityType string

const (
	ActivityTypeRegular ActivityType = "activity"
	ActivityTypeLookup  ActivityType = "lookup"
)

// Resource is a titled link attached to an activity
type Resource struct {
	Title string `json:"title" validate:"required,max=255"`
	URL   string `json:"url" validate:"required,url,max=2048"`
}

// Activity represents a tracked activity or a lookup-schedule template
type Activity struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	CategoryID  *uuid.UUID     `json:"category_id,omitempty"`
	Type        ActivityType   `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      ActivityStatus `json:"status"`
	Priority    *Priority      `json:"priority,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Notes       string         `json:"notes"`
	Cadence     Cadence        `json:"cadence"`
	Resources   []Resource     `json:"resources"`
	// Studio and TimeOfDay only carry values for lookup-schedule templates.
	// TimeOfDay keeps the original textual form (e.g. "05:05 AM").
	Studio    string    `json:"studio,omitempty"`
	TimeOfDay string    `json:"time_of_day,omitempty"`
	TimeSpent int       `json:"time_spent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLookup reports whether the activity is a lookup-schedule template
func (a *Activity) IsLookup() bool {
	return a.Type == ActivityTypeLookup
}

// Recurs reports whether completing the activity should schedule a next instance
func (a *Activity) Recurs() bool {
	switch a.Cadence {
	case CadenceDaily, CadenceWeekly, CadenceMonthly:
		return true
	default:
		return false
	}
}
