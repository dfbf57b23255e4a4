package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/enablementhq/tracker-api/internal/models"
)

// The matchers below form an ordered pipeline. Each one reports the value
// it extracted plus the residual text with the matched token(s) removed.
// Stripping scope differs per token class and is load-bearing: category and
// priority tokens are stripped everywhere they appear, while a matched
// weekday or numeric date is stripped once, leaving later duplicates in the
// title untouched.

var (
	categoryRe = regexp.MustCompile(`@([\w-]+)`)
	priorityRe = regexp.MustCompile(`(?i)#(urgent|important|high|low)`)

	tomorrowRe = regexp.MustCompile(`(?i)\b(?:by\s+)?tomorrow\b`)
	todayRe    = regexp.MustCompile(`(?i)\b(?:by\s+)?today\b`)
	weekdayRe  = regexp.MustCompile(`(?i)\b(?:by\s+)?(next\s+)?(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
	numericRe  = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})\b`)

	leadingByRe  = regexp.MustCompile(`(?i)^by\s+`)
	trailingByRe = regexp.MustCompile(`(?i)\s+by$`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
)

var weekdayIndex = map[string]int{
	"sunday": 0, "monday": 1, "tuesday": 2, "wednesday": 3,
	"thursday": 4, "friday": 5, "saturday": 6,
}

// matchCategory extracts the first @token. All @tokens are stripped from
// the residual, but only the first is consulted: one category per command.
func matchCategory(s string) (name, rest string, ok bool) {
	m := categoryRe.FindStringSubmatch(s)
	if m == nil {
		return "", s, false
	}
	return m[1], categoryRe.ReplaceAllString(s, ""), true
}

// matchPriority extracts the first #tag and strips every occurrence.
func matchPriority(s string) (models.Priority, string, bool) {
	m := priorityRe.FindStringSubmatch(s)
	if m == nil {
		return "", s, false
	}
	prio := models.Priority(strings.ToLower(m[1]))
	return prio, priorityRe.ReplaceAllString(s, ""), true
}

// matchDueDate tries the date sub-patterns in fixed precedence; the first
// success wins and stops further matching.
func matchDueDate(s string, now time.Time) (time.Time, string, bool) {
	midnight := atMidnight(now)

	if loc := tomorrowRe.FindStringIndex(s); loc != nil {
		return midnight.AddDate(0, 0, 1), tomorrowRe.ReplaceAllString(s, ""), true
	}

	if loc := todayRe.FindStringIndex(s); loc != nil {
		return midnight, todayRe.ReplaceAllString(s, ""), true
	}

	if m := weekdayRe.FindStringSubmatchIndex(s); m != nil {
		isNext := m[2] >= 0
		dayName := strings.ToLower(s[m[4]:m[5]])
		target := weekdayIndex[dayName]

		daysUntil := target - int(midnight.Weekday())
		// A plain weekday resolves to the next occurrence strictly after
		// today; "next" forces the following week even when the plain
		// computation would land later this week.
		if daysUntil <= 0 || isNext {
			daysUntil += 7
		}
		return midnight.AddDate(0, 0, daysUntil), s[:m[0]] + s[m[1]:], true
	}

	if m := numericRe.FindStringSubmatchIndex(s); m != nil {
		month, _ := strconv.Atoi(s[m[2]:m[3]])
		day, _ := strconv.Atoi(s[m[4]:m[5]])
		target := time.Date(midnight.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
		if target.Before(midnight) {
			target = time.Date(midnight.Year()+1, time.Month(month), day, 0, 0, 0, 0, now.Location())
		}
		return target, s[:m[0]] + s[m[1]:], true
	}

	return time.Time{}, s, false
}

// cleanTitle strips a leading "by " or trailing " by" left behind by date
// extraction, collapses whitespace runs, and trims.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = leadingByRe.ReplaceAllString(s, "")
	s = trailingByRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// foldName folds a category name or @token for comparison: case is lowered
// and whitespace runs become single hyphens.
func foldName(s string) string {
	return strings.ToLower(spaceRunRe.ReplaceAllString(strings.TrimSpace(s), "-"))
}

// dehyphenate converts a new-category token back into a display name,
// preserving the original casing.
func dehyphenate(s string) string {
	return strings.ReplaceAll(s, "-", " ")
}

func atMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
