package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISODate is the date-only layout used for all resolved deadlines.
const ISODate = "2006-01-02"

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// deadlinePattern locates one phrase shape and resolves it against the
// reference date. Resolution returning false yields no deadline rather
// than an error.
type deadlinePattern struct {
	re      *regexp.Regexp
	resolve func(match []string, ref time.Time) (time.Time, bool)
}

// deadlinePatterns is the ordered pattern list. When several patterns
// match one segment, the match earliest in the text wins; ties go to the
// earlier pattern here.
var deadlinePatterns = []deadlinePattern{
	// Already-resolved ISO dates pass through unchanged, which keeps
	// resolution idempotent when stored deadlines are re-fed.
	{
		re: regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`),
		resolve: func(m []string, ref time.Time) (time.Time, bool) {
			d, err := time.Parse(ISODate, m[1])
			return d, err == nil
		},
	},
	{
		re: regexp.MustCompile(`(?i)\b(?:by\s+|before\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		resolve: func(m []string, ref time.Time) (time.Time, bool) {
			target := weekdays[strings.ToLower(m[1])]
			days := (int(target) - int(ref.Weekday()) + 7) % 7
			return ref.AddDate(0, 0, days), true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\b(?:by\s+)?(tomorrow|today|tonight)\b`),
		resolve: func(m []string, ref time.Time) (time.Time, bool) {
			if strings.EqualFold(m[1], "tomorrow") {
				return ref.AddDate(0, 0, 1), true
			}
			return ref, true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\b(?:by\s+)?(next week|this week|end of (?:the )?week)\b`),
		resolve: func(m []string, ref time.Time) (time.Time, bool) {
			if strings.EqualFold(m[1], "next week") {
				return ref.AddDate(0, 0, 7), true
			}
			// "this week" resolves to the working week's end.
			days := int(time.Friday) - int(ref.Weekday())
			if days < 0 {
				days = 0
			}
			return ref.AddDate(0, 0, days), true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\b(?:by\s+)?(?:end of|this)\s+month\b`),
		resolve: func(m []string, ref time.Time) (time.Time, bool) {
			firstOfNext := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, 1, 0)
			return firstOfNext.AddDate(0, 0, -1), true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\bin\s+(\d+)\s+(day|days|week|weeks|month|months)\b`),
		resolve: func(m []string, ref time.Time) (time.Time, bool) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return time.Time{}, false
			}
			switch strings.ToLower(strings.TrimSuffix(m[2], "s")) {
			case "day":
				return ref.AddDate(0, 0, n), true
			case "week":
				return ref.AddDate(0, 0, 7*n), true
			case "month":
				return ref.AddDate(0, n, 0), true
			}
			return time.Time{}, false
		},
	},
	{
		re: regexp.MustCompile(`(?i)\bnext\s+(month|quarter)\b`),
		resolve: func(m []string, ref time.Time) (time.Time, bool) {
			if strings.EqualFold(m[1], "month") {
				return ref.AddDate(0, 1, 0), true
			}
			return ref.AddDate(0, 3, 0), true
		},
	},
}

// DeadlineExtractor resolves deadline phrases to calendar dates relative
// to a reference date. One deadline per segment at most.
type DeadlineExtractor struct{}

// NewDeadlineExtractor creates a deadline extractor.
func NewDeadlineExtractor() *DeadlineExtractor {
	return &DeadlineExtractor{}
}

// Extract finds the first deadline phrase in document order and resolves
// it against ref. The second return is false when no phrase is found or
// the found phrase cannot be resolved.
func (e *DeadlineExtractor) Extract(text string, ref time.Time) (string, bool) {
	bestIdx := -1
	var bestPattern *deadlinePattern

	for i := range deadlinePatterns {
		p := &deadlinePatterns[i]
		loc := p.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if bestIdx == -1 || loc[0] < bestIdx {
			bestIdx = loc[0]
			bestPattern = p
		}
	}
	if bestPattern == nil {
		return "", false
	}

	match := bestPattern.re.FindStringSubmatch(text)
	resolved, ok := bestPattern.resolve(match, ref)
	if !ok {
		return "", false
	}
	return resolved.Format(ISODate), true
}

// DueWithin reports whether the ISO deadline falls within the given
// number of days from now (dates in the past count as due). Unparseable
// deadlines are never due.
func DueWithin(deadline string, days int, now time.Time) bool {
	if deadline == "" {
		return false
	}
	d, err := time.Parse(ISODate, deadline)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	delta := int(d.Sub(today).Hours() / 24)
	return delta <= days
}
