package extraction

import (
	"testing"
	"time"
)

// ref is Thursday 2026-08-27 in all deadline tests.
var ref = time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

func TestDeadlineExtractor_Extract(t *testing.T) {
	e := NewDeadlineExtractor()

	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"by tomorrow", "We need it by tomorrow.", "2026-08-28", true},
		{"bare tomorrow", "Ship it tomorrow.", "2026-08-28", true},
		{"today", "Numbers land today.", "2026-08-27", true},
		{"tonight", "Deploy tonight.", "2026-08-27", true},
		{"by friday", "Should be done by Friday.", "2026-08-28", true},
		{"by weekday wrapping week", "Review it by Wednesday.", "2026-09-02", true},
		{"same weekday resolves to reference day", "Finish by Thursday.", "2026-08-27", true},
		{"next week", "Schedule the demo for next week.", "2026-09-03", true},
		{"this week", "We need this done this week.", "2026-08-28", true},
		{"end of month", "Close the books by end of month.", "2026-08-31", true},
		{"in N days", "Deliver in 3 days.", "2026-08-30", true},
		{"in N weeks", "Migrate in 2 weeks.", "2026-09-10", true},
		{"in N months", "Plan the audit in 1 month.", "2026-09-27", true},
		{"next month", "Kick off next month.", "2026-09-27", true},
		{"next quarter", "Revisit next quarter.", "2026-11-27", true},
		{"iso date passthrough", "Due 2026-12-01 sharp.", "2026-12-01", true},
		{"no phrase", "Let's talk about the roadmap.", "", false},
		{"unresolvable iso", "Logged as 2026-13-45 in the tracker.", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.Extract(tt.text, ref)
			if ok != tt.ok {
				t.Fatalf("Extract(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDeadlineExtractor_FirstMatchInDocumentOrder(t *testing.T) {
	e := NewDeadlineExtractor()

	// "tomorrow" appears before "next week"; only one deadline is
	// produced and it is the earlier phrase.
	got, ok := e.Extract("Finish it by tomorrow, not next week.", ref)
	if !ok || got != "2026-08-28" {
		t.Errorf("Extract() = (%q, %v), want (2026-08-28, true)", got, ok)
	}

	got, ok = e.Extract("Next week we plan; the fix lands tomorrow.", ref)
	if !ok || got != "2026-09-03" {
		t.Errorf("Extract() = (%q, %v), want (2026-09-03, true)", got, ok)
	}
}

func TestDeadlineExtractor_Idempotent(t *testing.T) {
	e := NewDeadlineExtractor()

	phrases := []string{
		"by tomorrow", "by Friday", "next week", "in 10 days", "end of month",
	}
	for _, phrase := range phrases {
		first, ok := e.Extract(phrase, ref)
		if !ok {
			t.Fatalf("Extract(%q) found nothing", phrase)
		}
		// Re-feeding the resolved ISO output with the same reference
		// yields the same date.
		second, ok := e.Extract(first, ref)
		if !ok || second != first {
			t.Errorf("Extract(%q) = (%q, %v), want (%q, true)", first, second, ok, first)
		}
	}
}

func TestDueWithin(t *testing.T) {
	now := time.Date(2026, 8, 27, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		deadline string
		days     int
		want     bool
	}{
		{"2026-08-27", 2, true},
		{"2026-08-29", 2, true},
		{"2026-08-30", 2, false},
		{"2026-08-20", 2, true}, // overdue counts as due
		{"", 2, false},
		{"not-a-date", 2, false},
	}

	for _, tt := range tests {
		if got := DueWithin(tt.deadline, tt.days, now); got != tt.want {
			t.Errorf("DueWithin(%q, %d) = %v, want %v", tt.deadline, tt.days, got, tt.want)
		}
	}
}
