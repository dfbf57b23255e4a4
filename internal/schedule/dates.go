package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/enablementhq/tracker-api/internal/models"
)

var clockRe = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)

var dayIndex = map[string]int{
	"SUNDAY": 0, "MONDAY": 1, "TUESDAY": 2, "WEDNESDAY": 3,
	"THURSDAY": 4, "FRIDAY": 5, "SATURDAY": 6,
}

// NextOccurrence resolves a weekday name plus a 12-hour time string into
// the nearest future timestamp with that weekday and time. When the target
// weekday is today but the time has already passed, the occurrence moves a
// week out. Seconds and sub-seconds are zeroed. The second return is false
// for an unrecognized weekday or time string.
func NextOccurrence(weekday, timeStr string, now time.Time) (time.Time, bool) {
	target, ok := dayIndex[strings.ToUpper(strings.TrimSpace(weekday))]
	if !ok {
		return time.Time{}, false
	}

	hour, minute, ok := parseClock(timeStr)
	if !ok {
		return time.Time{}, false
	}

	daysUntil := target - int(now.Weekday())
	if daysUntil < 0 {
		daysUntil += 7
	}

	y, m, d := now.Date()
	candidate := time.Date(y, m, d+daysUntil, hour, minute, 0, 0, now.Location())
	if daysUntil == 0 && !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}

	return candidate, true
}

// parseClock parses "H:MM AM|PM" into 24-hour hour and minute.
// 12 AM maps to hour 0 and 12 PM stays 12.
func parseClock(s string) (hour, minute int, ok bool) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}

	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, 0, false
	}

	isPM := strings.EqualFold(m[3], "PM")
	if hour == 12 {
		hour = 0
	}
	if isPM {
		hour += 12
	}

	return hour, minute, true
}

// NextDueDate advances a recurring activity's due date by one cadence
// step. A nil current due date advances from now. The base is truncated to
// local midnight before stepping. Monthly steps clamp to the last valid
// day of the target month instead of overflowing (Jan 31 -> Feb 28/29).
// The second return is false for cadences that do not recur, including
// one-time.
func NextDueDate(current *time.Time, cadence models.Cadence, now time.Time) (time.Time, bool) {
	base := now
	if current != nil {
		base = *current
	}
	y, m, d := base.Date()
	base = time.Date(y, m, d, 0, 0, 0, 0, base.Location())

	switch cadence {
	case models.CadenceDaily:
		return base.AddDate(0, 0, 1), true
	case models.CadenceWeekly:
		return base.AddDate(0, 0, 7), true
	case models.CadenceMonthly:
		return addMonthClamped(base), true
	default:
		return time.Time{}, false
	}
}

// addMonthClamped adds one calendar month, landing on the last valid day
// of the target month when the source day does not exist there.
func addMonthClamped(t time.Time) time.Time {
	y, m, d := t.Date()
	last := daysInMonth(y, m+1, t.Location())
	if d > last {
		d = last
	}
	return time.Date(y, m+1, d, 0, 0, 0, 0, t.Location())
}

// daysInMonth returns the number of days in the given month; the month may
// be out of the 1..12 range and is normalized the way time.Date does.
func daysInMonth(year int, month time.Month, loc *time.Location) int {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, loc)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
