// Package schedule parses pasted class-schedule text into a day-keyed
// table and resolves weekday/time pairs and recurrence cadences into
// concrete due dates.
package schedule

import (
	"errors"
	"regexp"
	"strings"
)

// Days are the seven canonical day-header strings, in display order.
var Days = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}

// ClassEntry is one parsed class line. Time keeps its original textual
// form; normalization to clock values happens later, in NextOccurrence.
type ClassEntry struct {
	Time      string `json:"time"`
	ClassName string `json:"class_name"`
	Location  string `json:"location"`
}

// Table maps an uppercase day name to its classes, in input order. Days
// without classes are absent rather than present with empty lists.
type Table map[string][]ClassEntry

// ErrNoClasses is returned when no class entries could be extracted from
// the input at all. It is the parser's only failure mode; individual
// unparseable lines are dropped silently.
var ErrNoClasses = errors.New("no classes found in the pasted text; expected day headers (e.g. MONDAY) followed by lines like \"05:05 AM Class Name  Location\"")

var (
	timePrefixRe = regexp.MustCompile(`(?i)^(\d{1,2}:\d{2}\s*(?:AM|PM))`)
	doubleSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// ParseText parses a pasted schedule blob into a Table.
//
// Lines before the first recognized day header are discarded. A repeated
// header resets that day's list instead of appending. The parse is
// all-or-nothing: if no line anywhere produced a class entry, ErrNoClasses
// is returned and no partial table.
func ParseText(text string) (Table, error) {
	table, _, err := parseLines(text)
	return table, err
}

// ParseTextStrict parses like ParseText but also reports the raw lines
// that were silently dropped (pre-header noise and lines without a time
// prefix), for callers that want to surface diagnostics.
func ParseTextStrict(text string) (Table, []string, error) {
	return parseLines(text)
}

func parseLines(text string) (Table, []string, error) {
	table := Table{}
	var skipped []string
	currentDay := ""
	total := 0

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if day, ok := matchDayHeader(line); ok {
			currentDay = day
			table[day] = nil
			continue
		}

		if currentDay == "" {
			skipped = append(skipped, line)
			continue
		}

		entry, ok := parseClassLine(line)
		if !ok {
			skipped = append(skipped, line)
			continue
		}

		table[currentDay] = append(table[currentDay], entry)
		total++
	}

	if total == 0 {
		return nil, skipped, ErrNoClasses
	}

	// Headers that never received a class stay out of the result.
	for day, entries := range table {
		if len(entries) == 0 {
			delete(table, day)
		}
	}

	return table, skipped, nil
}

func matchDayHeader(line string) (string, bool) {
	upper := strings.ToUpper(line)
	for _, day := range Days {
		if upper == day {
			return day, true
		}
	}
	return "", false
}

// parseClassLine splits "05:05 AMBasic Training  Gym" into time, name and
// location. The time token may run straight into the class name. Name and
// location are separated by a run of two or more spaces when present;
// otherwise the last single space is the split point, which still isolates
// a one-word location from a multi-word class name.
func parseClassLine(line string) (ClassEntry, bool) {
	m := timePrefixRe.FindStringSubmatch(line)
	if m == nil {
		return ClassEntry{}, false
	}

	entry := ClassEntry{Time: strings.TrimSpace(m[1])}
	remainder := strings.TrimSpace(line[len(m[0]):])

	parts := doubleSpaceRe.Split(remainder, -1)
	switch {
	case len(parts) >= 2:
		entry.ClassName = strings.TrimSpace(parts[0])
		entry.Location = strings.TrimSpace(strings.Join(parts[1:], " "))
	default:
		if idx := strings.LastIndex(remainder, " "); idx >= 0 {
			entry.ClassName = strings.TrimSpace(remainder[:idx])
			entry.Location = strings.TrimSpace(remainder[idx+1:])
		} else {
			entry.ClassName = remainder
		}
	}

	return entry, true
}
