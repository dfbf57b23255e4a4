package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/enablementhq/tracker-api/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	if err := Validate.RegisterValidation("activity_status", validateActivityStatus); err != nil {
		panic(fmt.Sprintf("failed to register activity_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("cadence", validateCadence); err != nil {
		panic(fmt.Sprintf("failed to register cadence validator: %v", err))
	}
	if err := Validate.RegisterValidation("priority", validatePriority); err != nil {
		panic(fmt.Sprintf("failed to register priority validator: %v", err))
	}
}

func validateActivityStatus(fl validator.FieldLevel) bool {
	return ValidateActivityStatus(fl.Field().String()) == nil
}

func validateCadence(fl validator.FieldLevel) bool {
	return ValidateCadence(fl.Field().String()) == nil
}

func validatePriority(fl validator.FieldLevel) bool {
	return ValidatePriority(fl.Field().String()) == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateActivityStatus validates an ActivityStatus string value
func ValidateActivityStatus(value string) error {
	switch models.ActivityStatus(value) {
	case models.ActivityStatusNotStarted, models.ActivityStatusInProgress, models.ActivityStatusCompleted:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'not-started', 'in-progress', or 'completed')", value)
	}
}

// ValidateCadence validates a Cadence string value
func ValidateCadence(value string) error {
	switch models.Cadence(value) {
	case models.CadenceOneTime, models.CadenceDaily, models.CadenceWeekly, models.CadenceMonthly:
		return nil
	default:
		return fmt.Errorf("invalid cadence: %s (must be 'one-time', 'daily', 'weekly', or 'monthly')", value)
	}
}

// ValidatePriority validates a Priority string value
func ValidatePriority(value string) error {
	switch models.Priority(value) {
	case models.PriorityUrgent, models.PriorityImportant, models.PriorityHigh, models.PriorityLow:
		return nil
	default:
		return fmt.Errorf("invalid priority: %s (must be 'urgent', 'important', 'high', or 'low')", value)
	}
}

// ValidateActivityType validates an ActivityType string value
func ValidateActivityType(value string) error {
	switch models.ActivityType(value) {
	case models.ActivityTypeRegular, models.ActivityTypeLookup:
		return nil
	default:
		return fmt.Errorf("invalid type: %s (must be 'activity' or 'lookup')", value)
	}
}
