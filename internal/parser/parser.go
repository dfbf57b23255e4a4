// Package parser turns one line of command-bar input into a structured
// activity draft. Recognized tokens (@category, #priority, due-date
// expressions) are stripped from the text as they match; whatever is left
// becomes the title. Parsing is pure: the clock is injected and the
// category index is read-only.
package parser

import (
	"time"

	"github.com/google/uuid"

	"github.com/enablementhq/tracker-api/internal/models"
)

// CategoryRef is the slice of a category the parser needs for matching.
// The caller supplies a consistent snapshot per call and keeps ownership.
type CategoryRef struct {
	ID   uuid.UUID
	Name string
}

// ParsedCommand is the structured draft produced from one input line.
// Unmatched tokens leave the corresponding field unset; there is no error
// path. Cadence is part of the shape for callers that fill it from a form
// control, but the free-text grammar never populates it.
type ParsedCommand struct {
	Title           string
	CategoryID      *uuid.UUID
	NewCategoryName string
	DueDate         *time.Time
	Cadence         models.Cadence
	Priority        *models.Priority
}

// DueDateMillis returns the due date as epoch milliseconds, or 0 when unset.
func (p ParsedCommand) DueDateMillis() int64 {
	if p.DueDate == nil {
		return 0
	}
	return p.DueDate.UnixMilli()
}

// Parse extracts structured fields from a single line of free text.
//
// Extraction order is fixed and significant: category, then priority, then
// due date (tomorrow > today > weekday > numeric M/D), then title cleanup.
// Each step works on the residual text left by the previous one, so later
// steps never re-match consumed tokens. The wall clock is captured once in
// now and used for every relative computation in the call.
func Parse(input string, categories []CategoryRef, now time.Time) ParsedCommand {
	parsed := ParsedCommand{}
	rest := input

	if name, residual, ok := matchCategory(rest); ok {
		rest = residual
		if ref, found := lookupCategory(categories, name); found {
			id := ref.ID
			parsed.CategoryID = &id
		} else {
			parsed.NewCategoryName = dehyphenate(name)
		}
	}

	if prio, residual, ok := matchPriority(rest); ok {
		rest = residual
		parsed.Priority = &prio
	}

	if due, residual, ok := matchDueDate(rest, now); ok {
		rest = residual
		parsed.DueDate = &due
	}

	parsed.Title = cleanTitle(rest)
	return parsed
}

// lookupCategory matches a raw @token against the category index.
// Names are compared with spaces collapsed to hyphens and case folded, so
// "@client-work" matches a category named "Client Work".
func lookupCategory(categories []CategoryRef, token string) (CategoryRef, bool) {
	want := foldName(token)
	for _, ref := range categories {
		if foldName(ref.Name) == want {
			return ref, true
		}
	}
	return CategoryRef{}, false
}
