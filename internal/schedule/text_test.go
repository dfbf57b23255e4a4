package schedule

import (
	"errors"
	"testing"
)

const sampleSchedule = `MONDAY
05:05 AMBasic Training  Gym
06:00 AMMasters Swim  Indoor Pool
TUESDAY
07:00 AMYoga  Studio B
`

func TestParseText_Sample(t *testing.T) {
	t.Parallel()

	table, err := ParseText(sampleSchedule)
	if err != nil {
		t.Fatalf("ParseText returned error: %v", err)
	}

	monday := table["MONDAY"]
	if len(monday) != 2 {
		t.Fatalf("MONDAY entries = %d, want 2", len(monday))
	}
	want := ClassEntry{Time: "05:05 AM", ClassName: "Basic Training", Location: "Gym"}
	if monday[0] != want {
		t.Errorf("MONDAY[0] = %+v, want %+v", monday[0], want)
	}
	want = ClassEntry{Time: "06:00 AM", ClassName: "Masters Swim", Location: "Indoor Pool"}
	if monday[1] != want {
		t.Errorf("MONDAY[1] = %+v, want %+v", monday[1], want)
	}

	tuesday := table["TUESDAY"]
	if len(tuesday) != 1 {
		t.Fatalf("TUESDAY entries = %d, want 1", len(tuesday))
	}
	if tuesday[0].ClassName != "Yoga" || tuesday[0].Location != "Studio B" {
		t.Errorf("TUESDAY[0] = %+v", tuesday[0])
	}

	if len(table) != 2 {
		t.Errorf("table has %d days, want 2", len(table))
	}
}

func TestParseText_LocationHeuristics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		line     string
		wantName string
		wantLoc  string
	}{
		{"double space separator", "MONDAY\n05:00 PMSpin Class  Cycle Room", "Spin Class", "Cycle Room"},
		{"last single space fallback", "MONDAY\n05:00 PMMasters Swim Pool", "Masters Swim", "Pool"},
		{"no space at all", "MONDAY\n05:00 PMSpin", "Spin", ""},
		{"multi part location joined", "MONDAY\n05:00 PMBarre  Studio  Annex B", "Barre", "Studio Annex B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table, err := ParseText(tt.line)
			if err != nil {
				t.Fatalf("ParseText returned error: %v", err)
			}
			entries := table["MONDAY"]
			if len(entries) != 1 {
				t.Fatalf("entries = %d, want 1", len(entries))
			}
			if entries[0].ClassName != tt.wantName || entries[0].Location != tt.wantLoc {
				t.Errorf("got name=%q loc=%q, want name=%q loc=%q",
					entries[0].ClassName, entries[0].Location, tt.wantName, tt.wantLoc)
			}
		})
	}
}

func TestParseText_HeadersOnlyFails(t *testing.T) {
	t.Parallel()

	table, err := ParseText("MONDAY\nTUESDAY\nWEDNESDAY\n")
	if !errors.Is(err, ErrNoClasses) {
		t.Fatalf("err = %v, want ErrNoClasses", err)
	}
	if table != nil {
		t.Errorf("table = %v, want nil on failure", table)
	}
}

func TestParseText_EmptyInputFails(t *testing.T) {
	t.Parallel()

	if _, err := ParseText(""); !errors.Is(err, ErrNoClasses) {
		t.Fatalf("err = %v, want ErrNoClasses", err)
	}
}

func TestParseText_PreHeaderNoiseDiscarded(t *testing.T) {
	t.Parallel()

	text := "Fall schedule, all locations\n09:00 AMOrphan Class  Gym\nMONDAY\n05:05 AMBasic Training  Gym\n"
	table, err := ParseText(text)
	if err != nil {
		t.Fatalf("ParseText returned error: %v", err)
	}
	if len(table["MONDAY"]) != 1 {
		t.Errorf("MONDAY entries = %d, want 1 (pre-header lines dropped)", len(table["MONDAY"]))
	}
}

func TestParseText_RepeatedHeaderResets(t *testing.T) {
	t.Parallel()

	text := "MONDAY\n05:05 AMBasic Training  Gym\nMONDAY\n06:00 AMMasters Swim  Pool\n"
	table, err := ParseText(text)
	if err != nil {
		t.Fatalf("ParseText returned error: %v", err)
	}
	monday := table["MONDAY"]
	if len(monday) != 1 || monday[0].ClassName != "Masters Swim" {
		t.Errorf("MONDAY = %+v, want only the post-reset entry", monday)
	}
}

func TestParseText_CaseInsensitiveHeaders(t *testing.T) {
	t.Parallel()

	table, err := ParseText("monday\n05:05 am Basic Training  Gym\n")
	if err != nil {
		t.Fatalf("ParseText returned error: %v", err)
	}
	if len(table["MONDAY"]) != 1 {
		t.Errorf("lowercase header not recognized: %v", table)
	}
}

func TestParseText_NonClassLinesDropped(t *testing.T) {
	t.Parallel()

	text := "MONDAY\nNo classes scheduled\n05:05 AMBasic Training  Gym\n"
	table, err := ParseText(text)
	if err != nil {
		t.Fatalf("ParseText returned error: %v", err)
	}
	if len(table["MONDAY"]) != 1 {
		t.Errorf("MONDAY entries = %d, want 1", len(table["MONDAY"]))
	}
}

func TestParseTextStrict_ReportsSkippedLines(t *testing.T) {
	t.Parallel()

	text := "Header noise\nMONDAY\nnot a class\n05:05 AMBasic Training  Gym\n"
	table, skipped, err := ParseTextStrict(text)
	if err != nil {
		t.Fatalf("ParseTextStrict returned error: %v", err)
	}
	if len(table["MONDAY"]) != 1 {
		t.Fatalf("MONDAY entries = %d, want 1", len(table["MONDAY"]))
	}
	if len(skipped) != 2 {
		t.Fatalf("skipped = %v, want 2 lines", skipped)
	}
	if skipped[0] != "Header noise" || skipped[1] != "not a class" {
		t.Errorf("skipped = %v", skipped)
	}
}

func TestParseText_DayWithHeaderButNoEntriesAbsent(t *testing.T) {
	t.Parallel()

	text := "MONDAY\n05:05 AMBasic Training  Gym\nTUESDAY\n"
	table, err := ParseText(text)
	if err != nil {
		t.Fatalf("ParseText returned error: %v", err)
	}
	if _, present := table["TUESDAY"]; present {
		t.Errorf("TUESDAY present with no entries; want absent")
	}
}
