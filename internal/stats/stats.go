// Package stats computes activity rollups: totals, completion rate,
// consecutive-day completion streaks, overdue and due-soon counts, and
// per-category breakdowns. All functions are pure over their inputs and
// take an explicit reference time so results are reproducible in tests.
package stats

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/enablementhq/tracker-api/internal/models"
)

// DueSoonWindow is how far ahead an incomplete activity counts as due soon.
const DueSoonWindow = 3 * 24 * time.Hour

// Summary is the top-level dashboard rollup.
type Summary struct {
	TotalActivities     int `json:"total_activities"`
	CompletedActivities int `json:"completed_activities"`
	CompletionRate      int `json:"completion_rate"`
	CurrentStreak       int `json:"current_streak"`
	LongestStreak       int `json:"longest_streak"`
	TotalTimeSpent      int `json:"total_time_spent"`
	OverdueCount        int `json:"overdue_count"`
	DueSoonCount        int `json:"due_soon_count"`
}

// CategorySummary is the per-category rollup.
type CategorySummary struct {
	CategoryID     uuid.UUID `json:"category_id"`
	CategoryName   string    `json:"category_name"`
	CategoryColor  string    `json:"category_color"`
	Total          int       `json:"total"`
	Completed      int       `json:"completed"`
	CompletionRate int       `json:"completion_rate"`
	TimeSpent      int       `json:"time_spent"`
}

// Summarize computes the dashboard rollup for one user's activities.
func Summarize(activities []models.Activity, now time.Time) Summary {
	s := Summary{TotalActivities: len(activities)}

	var completionDays []time.Time
	for _, a := range activities {
		s.TotalTimeSpent += a.TimeSpent

		if a.Status == models.ActivityStatusCompleted {
			s.CompletedActivities++
			if a.CompletedAt != nil {
				completionDays = append(completionDays, *a.CompletedAt)
			}
			continue
		}

		if a.DueDate == nil {
			continue
		}
		if a.DueDate.Before(now) {
			s.OverdueCount++
		} else if a.DueDate.Sub(now) <= DueSoonWindow {
			s.DueSoonCount++
		}
	}

	s.CompletionRate = rate(s.CompletedActivities, s.TotalActivities)
	s.CurrentStreak = CurrentStreak(completionDays, now)
	s.LongestStreak = LongestStreak(completionDays)
	return s
}

// SummarizeByCategory computes one rollup per category, in category order.
// Activities without a category are not attributed anywhere.
func SummarizeByCategory(activities []models.Activity, categories []models.Category) []CategorySummary {
	out := make([]CategorySummary, 0, len(categories))
	for _, cat := range categories {
		cs := CategorySummary{
			CategoryID:    cat.ID,
			CategoryName:  cat.Name,
			CategoryColor: cat.Color,
		}
		for _, a := range activities {
			if a.CategoryID == nil || *a.CategoryID != cat.ID {
				continue
			}
			cs.Total++
			cs.TimeSpent += a.TimeSpent
			if a.Status == models.ActivityStatusCompleted {
				cs.Completed++
			}
		}
		cs.CompletionRate = rate(cs.Completed, cs.Total)
		out = append(out, cs)
	}
	return out
}

// CurrentStreak counts the run of completion days ending today or
// yesterday. Each step of the walk tolerates a single missed day, so a
// one-day gap does not break the run; a most recent completion older than
// yesterday, or a gap of two or more days, does.
func CurrentStreak(completions []time.Time, now time.Time) int {
	days := uniqueDaysDescending(completions)
	if len(days) == 0 {
		return 0
	}

	today := truncateToDay(now)
	yesterday := today.AddDate(0, 0, -1)
	if days[0].Before(yesterday) {
		return 0
	}

	streak := 0
	expected := today
	for _, day := range days {
		prev := expected.AddDate(0, 0, -1)
		if !day.Equal(expected) && !day.Equal(prev) {
			break
		}
		streak++
		expected = day.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak finds the longest run of consecutive completion days
// anywhere in the history.
func LongestStreak(completions []time.Time) int {
	days := uniqueDaysDescending(completions)
	if len(days) == 0 {
		return 0
	}

	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}

// uniqueDaysDescending truncates completion timestamps to local midnight,
// dedupes repeated days, and sorts newest first.
func uniqueDaysDescending(completions []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(completions))
	days := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		day := truncateToDay(c)
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func rate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(completed)/float64(total)*100 + 0.5)
}
