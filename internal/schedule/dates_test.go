package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/enablementhq/tracker-api/internal/models"
)

// refNow is a Wednesday afternoon. Weekday math below is pinned against it.
var refNow = time.Date(2026, time.March, 4, 15, 30, 45, 123, time.Local)

func TestNextOccurrence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		weekday string
		timeStr string
		want    time.Time
	}{
		{"later this week", "FRIDAY", "06:00 AM", time.Date(2026, time.March, 6, 6, 0, 0, 0, time.Local)},
		{"earlier weekday wraps", "MONDAY", "06:00 AM", time.Date(2026, time.March, 9, 6, 0, 0, 0, time.Local)},
		{"today later time stays today", "WEDNESDAY", "05:00 PM", time.Date(2026, time.March, 4, 17, 0, 0, 0, time.Local)},
		{"today earlier time pushes a week", "WEDNESDAY", "06:00 AM", time.Date(2026, time.March, 11, 6, 0, 0, 0, time.Local)},
		{"midnight is 12 AM", "THURSDAY", "12:00 AM", time.Date(2026, time.March, 5, 0, 0, 0, 0, time.Local)},
		{"noon is 12 PM", "THURSDAY", "12:00 PM", time.Date(2026, time.March, 5, 12, 0, 0, 0, time.Local)},
		{"pm offset", "THURSDAY", "05:05 PM", time.Date(2026, time.March, 5, 17, 5, 0, 0, time.Local)},
		{"lowercase weekday and meridiem", "thursday", "9:15 am", time.Date(2026, time.March, 5, 9, 15, 0, 0, time.Local)},
		{"no space before meridiem", "THURSDAY", "9:15AM", time.Date(2026, time.March, 5, 9, 15, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := NextOccurrence(tt.weekday, tt.timeStr, refNow)
			if !ok {
				t.Fatalf("NextOccurrence(%q, %q) not ok", tt.weekday, tt.timeStr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextOccurrence(%q, %q) = %v, want %v", tt.weekday, tt.timeStr, got, tt.want)
			}
			if !got.After(refNow) {
				t.Errorf("occurrence %v is not in the future of %v", got, refNow)
			}
			if got.Second() != 0 || got.Nanosecond() != 0 {
				t.Errorf("occurrence %v has non-zero sub-minute components", got)
			}
		})
	}
}

func TestNextOccurrence_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		weekday string
		timeStr string
	}{
		{"unknown weekday", "FUNDAY", "06:00 AM"},
		{"empty weekday", "", "06:00 AM"},
		{"missing meridiem", "MONDAY", "06:00"},
		{"hour out of range", "MONDAY", "13:00 PM"},
		{"hour zero", "MONDAY", "0:30 AM"},
		{"minute out of range", "MONDAY", "6:75 AM"},
		{"garbage time", "MONDAY", "soonish"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, ok := NextOccurrence(tt.weekday, tt.timeStr, refNow); ok {
				t.Errorf("NextOccurrence(%q, %q) ok = true, want false", tt.weekday, tt.timeStr)
			}
		})
	}
}

func TestNextOccurrence_WithinOneWeek(t *testing.T) {
	t.Parallel()

	// Sweep every weekday against every hour boundary; the result must
	// always be in the future but no more than seven days out.
	for day := range dayIndex {
		for hour := 1; hour <= 12; hour++ {
			for _, meridiem := range []string{"AM", "PM"} {
				ts := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.Local)
				got, ok := NextOccurrence(day, formatClock(hour, 0, meridiem), ts)
				if !ok {
					t.Fatalf("NextOccurrence(%q) not ok", day)
				}
				if !got.After(ts) {
					t.Errorf("%s %d %s: %v not after %v", day, hour, meridiem, got, ts)
				}
				if got.Sub(ts) > 7*24*time.Hour {
					t.Errorf("%s %d %s: %v more than a week after %v", day, hour, meridiem, got, ts)
				}
			}
		}
	}
}

func formatClock(hour, minute int, meridiem string) string {
	return fmt.Sprintf("%d:%02d %s", hour, minute, meridiem)
}

func TestNextDueDate(t *testing.T) {
	t.Parallel()

	jan31 := time.Date(2026, time.January, 31, 9, 0, 0, 0, time.Local)
	leapJan31 := time.Date(2028, time.January, 31, 9, 0, 0, 0, time.Local)
	dec15 := time.Date(2026, time.December, 15, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		current *time.Time
		cadence models.Cadence
		want    time.Time
		wantOK  bool
	}{
		{"daily", &jan31, models.CadenceDaily, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.Local), true},
		{"weekly", &dec15, models.CadenceWeekly, time.Date(2026, time.December, 22, 0, 0, 0, 0, time.Local), true},
		{"monthly clamps to feb 28", &jan31, models.CadenceMonthly, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.Local), true},
		{"monthly clamps to leap feb 29", &leapJan31, models.CadenceMonthly, time.Date(2028, time.February, 29, 0, 0, 0, 0, time.Local), true},
		{"monthly across year boundary", &dec15, models.CadenceMonthly, time.Date(2027, time.January, 15, 0, 0, 0, 0, time.Local), true},
		{"one-time does not recur", &jan31, models.CadenceOneTime, time.Time{}, false},
		{"unknown cadence does not recur", &jan31, models.Cadence("fortnightly"), time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := NextDueDate(tt.current, tt.cadence, refNow)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("NextDueDate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextDueDate_NilCurrentUsesNow(t *testing.T) {
	t.Parallel()

	got, ok := NextDueDate(nil, models.CadenceDaily, refNow)
	if !ok {
		t.Fatal("ok = false, want true")
	}
	want := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("NextDueDate = %v, want %v", got, want)
	}
}

func TestNextDueDate_TimeOfDayDiscarded(t *testing.T) {
	t.Parallel()

	late := time.Date(2026, time.June, 10, 23, 59, 59, 999, time.Local)
	got, ok := NextDueDate(&late, models.CadenceWeekly, refNow)
	if !ok {
		t.Fatal("ok = false, want true")
	}
	want := time.Date(2026, time.June, 17, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("NextDueDate = %v, want midnight %v", got, want)
	}
}
