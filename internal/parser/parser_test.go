package parser

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/enablementhq/tracker-api/internal/models"
)

// fixedNow is a Wednesday. Weekday-relative expectations below are pinned
// against it.
var fixedNow = time.Date(2026, time.March, 4, 15, 30, 0, 0, time.Local)

func midnight(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func TestParse_PlainTextBecomesTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Write launch notes", "Write launch notes"},
		{"leading and trailing space", "  Write launch notes  ", "Write launch notes"},
		{"internal runs collapsed", "Write   launch \t notes", "Write launch notes"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Parse(tt.input, nil, fixedNow)
			if got.Title != tt.want {
				t.Errorf("Title = %q, want %q", got.Title, tt.want)
			}
			if got.CategoryID != nil || got.NewCategoryName != "" || got.DueDate != nil || got.Priority != nil || got.Cadence != "" {
				t.Errorf("expected no fields set for %q, got %+v", tt.input, got)
			}
		})
	}
}

func TestParse_FullCommand(t *testing.T) {
	t.Parallel()

	awsID := uuid.New()
	categories := []CategoryRef{
		{ID: uuid.New(), Name: "Personal"},
		{ID: awsID, Name: "AWS"},
	}

	got := Parse("Deploy app by Friday @aws #urgent", categories, fixedNow)

	if got.Title != "Deploy app" {
		t.Errorf("Title = %q, want %q", got.Title, "Deploy app")
	}
	if got.CategoryID == nil || *got.CategoryID != awsID {
		t.Errorf("CategoryID = %v, want %s", got.CategoryID, awsID)
	}
	if got.NewCategoryName != "" {
		t.Errorf("NewCategoryName = %q, want empty", got.NewCategoryName)
	}
	if got.Priority == nil || *got.Priority != models.PriorityUrgent {
		t.Errorf("Priority = %v, want urgent", got.Priority)
	}
	// fixedNow is Wednesday Mar 4; next Friday is Mar 6.
	want := midnight(2026, time.March, 6)
	if got.DueDate == nil || !got.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, want)
	}
}

func TestParse_NewCategory(t *testing.T) {
	t.Parallel()

	got := Parse("Call client tomorrow @newclient", nil, fixedNow)

	if got.Title != "Call client" {
		t.Errorf("Title = %q, want %q", got.Title, "Call client")
	}
	if got.CategoryID != nil {
		t.Errorf("CategoryID = %v, want nil", got.CategoryID)
	}
	if got.NewCategoryName != "newclient" {
		t.Errorf("NewCategoryName = %q, want %q", got.NewCategoryName, "newclient")
	}
	want := midnight(2026, time.March, 5)
	if got.DueDate == nil || !got.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, want)
	}
}

func TestParse_CategoryNameFolding(t *testing.T) {
	t.Parallel()

	workID := uuid.New()
	categories := []CategoryRef{{ID: workID, Name: "Client Work"}}

	tests := []struct {
		name    string
		input   string
		matched bool
		newName string
	}{
		{"hyphenated token matches spaced name", "Send invoice @client-work", true, ""},
		{"case insensitive", "Send invoice @Client-Work", true, ""},
		{"no match preserves case, dehyphenated", "Plan trip @Summer-Break", false, "Summer Break"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Parse(tt.input, categories, fixedNow)
			if tt.matched {
				if got.CategoryID == nil || *got.CategoryID != workID {
					t.Errorf("CategoryID = %v, want %s", got.CategoryID, workID)
				}
				if got.NewCategoryName != "" {
					t.Errorf("NewCategoryName = %q, want empty", got.NewCategoryName)
				}
			} else {
				if got.CategoryID != nil {
					t.Errorf("CategoryID = %v, want nil", got.CategoryID)
				}
				if got.NewCategoryName != tt.newName {
					t.Errorf("NewCategoryName = %q, want %q", got.NewCategoryName, tt.newName)
				}
			}
		})
	}
}

func TestParse_OnlyFirstCategoryConsulted(t *testing.T) {
	t.Parallel()

	firstID := uuid.New()
	secondID := uuid.New()
	categories := []CategoryRef{
		{ID: firstID, Name: "alpha"},
		{ID: secondID, Name: "beta"},
	}

	got := Parse("Pick one @alpha @beta", categories, fixedNow)

	if got.CategoryID == nil || *got.CategoryID != firstID {
		t.Errorf("CategoryID = %v, want first match %s", got.CategoryID, firstID)
	}
	// Both tokens are stripped from the title even though only the first
	// was consulted.
	if got.Title != "Pick one" {
		t.Errorf("Title = %q, want %q", got.Title, "Pick one")
	}
}

func TestParse_PriorityTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		want      models.Priority
		wantTitle string
	}{
		{"urgent", "Fix outage #urgent", models.PriorityUrgent, "Fix outage"},
		{"uppercase folds", "Fix outage #URGENT", models.PriorityUrgent, "Fix outage"},
		{"important", "Review budget #important", models.PriorityImportant, "Review budget"},
		{"high", "Prep deck #high", models.PriorityHigh, "Prep deck"},
		{"low", "Sort inbox #low", models.PriorityLow, "Sort inbox"},
		{"all occurrences stripped", "Fix #urgent outage #low", models.PriorityUrgent, "Fix outage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Parse(tt.input, nil, fixedNow)
			if got.Priority == nil || *got.Priority != tt.want {
				t.Errorf("Priority = %v, want %s", got.Priority, tt.want)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
		})
	}
}

func TestParse_UnknownTagLeftInTitle(t *testing.T) {
	t.Parallel()

	got := Parse("Ship release #someday", nil, fixedNow)
	if got.Priority != nil {
		t.Errorf("Priority = %v, want nil", got.Priority)
	}
	if got.Title != "Ship release #someday" {
		t.Errorf("Title = %q, want tag preserved", got.Title)
	}
}

func TestParse_DueDatePrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		want      time.Time
		wantTitle string
	}{
		{"tomorrow", "Pay rent tomorrow", midnight(2026, time.March, 5), "Pay rent"},
		{"by tomorrow", "Pay rent by tomorrow", midnight(2026, time.March, 5), "Pay rent"},
		{"today", "Standup notes today", midnight(2026, time.March, 4), "Standup notes"},
		{"by today", "Standup notes by today", midnight(2026, time.March, 4), "Standup notes"},
		// tomorrow outranks a weekday appearing earlier in the string
		{"tomorrow beats weekday", "Friday review tomorrow", midnight(2026, time.March, 5), "Friday review"},
		// plain weekday later this week
		{"upcoming weekday", "Dentist Friday", midnight(2026, time.March, 6), "Dentist"},
		{"by weekday", "Dentist by Friday", midnight(2026, time.March, 6), "Dentist"},
		// same weekday as today rolls a full week forward
		{"same weekday rolls over", "Retro Wednesday", midnight(2026, time.March, 11), "Retro"},
		// weekday earlier in the cycle rolls into next week
		{"past weekday rolls over", "Groceries Monday", midnight(2026, time.March, 9), "Groceries"},
		// "next" forces the following week even for a still-upcoming day
		{"next weekday", "Dentist next Friday", midnight(2026, time.March, 13), "Dentist"},
		{"by next weekday", "Dentist by next Friday", midnight(2026, time.March, 13), "Dentist"},
		// numeric dates: upcoming stays this year, past rolls to next year
		{"numeric upcoming", "Taxes 4/15", midnight(2026, time.April, 15), "Taxes"},
		{"numeric dash", "Taxes 4-15", midnight(2026, time.April, 15), "Taxes"},
		{"numeric past rolls year", "Party 1/15", midnight(2027, time.January, 15), "Party"},
		// weekday outranks numeric regardless of position
		{"weekday beats numeric", "Review 4/15 Friday", midnight(2026, time.March, 6), "Review 4/15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Parse(tt.input, nil, fixedNow)
			if got.DueDate == nil || !got.DueDate.Equal(tt.want) {
				t.Errorf("DueDate = %v, want %v", got.DueDate, tt.want)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
		})
	}
}

func TestParse_NoDateExpression(t *testing.T) {
	t.Parallel()

	got := Parse("Read two chapters", nil, fixedNow)
	if got.DueDate != nil {
		t.Errorf("DueDate = %v, want nil", got.DueDate)
	}
}

func TestParse_CadenceNeverSetFromText(t *testing.T) {
	t.Parallel()

	// The grammar has no cadence tokens; phrases like "weekly" stay in the
	// title and the field stays empty.
	got := Parse("Water plants weekly", nil, fixedNow)
	if got.Cadence != "" {
		t.Errorf("Cadence = %q, want unset", got.Cadence)
	}
	if got.Title != "Water plants weekly" {
		t.Errorf("Title = %q, want phrase preserved", got.Title)
	}
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	input := "Deploy app by Friday @aws #urgent"
	categories := []CategoryRef{{ID: uuid.New(), Name: "AWS"}}

	first := Parse(input, categories, fixedNow)
	second := Parse(input, categories, fixedNow)

	if first.Title != second.Title ||
		!equalUUIDPtr(first.CategoryID, second.CategoryID) ||
		first.NewCategoryName != second.NewCategoryName ||
		!equalTimePtr(first.DueDate, second.DueDate) ||
		first.Cadence != second.Cadence ||
		!equalPriorityPtr(first.Priority, second.Priority) {
		t.Errorf("repeated parse diverged: %+v vs %+v", first, second)
	}
}

func TestParse_DueDateMillis(t *testing.T) {
	t.Parallel()

	got := Parse("Pay rent tomorrow", nil, fixedNow)
	want := midnight(2026, time.March, 5).UnixMilli()
	if got.DueDateMillis() != want {
		t.Errorf("DueDateMillis() = %d, want %d", got.DueDateMillis(), want)
	}

	none := Parse("Pay rent", nil, fixedNow)
	if none.DueDateMillis() != 0 {
		t.Errorf("DueDateMillis() = %d, want 0 when unset", none.DueDateMillis())
	}
}

func equalUUIDPtr(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalPriorityPtr(a, b *models.Priority) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
