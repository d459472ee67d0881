package extraction

import (
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/taskd/internal/advisory"
)

// cuePhraseRE matches request and commitment markers that signal a task,
// plus sequencing markers ("after", "once", "depends on") since a segment
// ordering work relative to other work is itself actionable.
var cuePhraseRE = regexp.MustCompile(`(?i)\b(` +
	`we need to|need to|needs to|we should|have to|must|` +
	`can you|could you|can someone|who can|please|assign|` +
	`action item|todo|to do|i'll|i will|going to|` +
	`responsible for|work on|volunteer|take it|` +
	`after|once|depends on` +
	`)\b`)

// dateCueRE matches relative and absolute date markers.
var dateCueRE = regexp.MustCompile(`(?i)\b(by|before|next|tomorrow|today|tonight|this week|end of day|eod)\b`)

// imperativeStarts are verbs that mark a segment as a task when they
// open it.
var imperativeStarts = map[string]struct{}{
	"update": {}, "fix": {}, "test": {}, "deploy": {}, "design": {},
	"create": {}, "prepare": {}, "write": {}, "review": {}, "check": {},
	"implement": {}, "investigate": {}, "follow": {}, "schedule": {},
	"setup": {}, "migrate": {}, "refactor": {}, "improve": {}, "add": {},
	"remove": {}, "patch": {}, "build": {}, "redesign": {},
}

// Detector classifies a segment as task or non-task. The decision is a
// hard accept/reject, not a weighted score.
type Detector struct {
	minAdvisorySummaryLen int
}

// NewDetector creates a candidate detector.
func NewDetector(cfg Config) *Detector {
	cfg.applyDefaults()
	return &Detector{minAdvisorySummaryLen: cfg.MinAdvisorySummaryLen}
}

// IsCandidate reports whether the segment describes an actionable item.
//
// The heuristic rules are checked in order, first match wins:
// cue phrase, imperative first word, date cue. When advice is present,
// a sufficiently long advisory summary also accepts the segment; this is
// an OR with the heuristic result, so the heuristics alone remain able
// to find every candidate with no advisory input.
func (d *Detector) IsCandidate(text string, advice *advisory.SegmentAdvice) bool {
	if d.matchesHeuristic(text) {
		return true
	}
	if advice != nil && len(advice.Summary) > d.minAdvisorySummaryLen {
		return true
	}
	return false
}

// MatchesHeuristic reports whether the heuristic rules alone accept the
// segment, ignoring any advisory input. Used for provenance records.
func (d *Detector) MatchesHeuristic(text string) bool {
	return d.matchesHeuristic(text)
}

func (d *Detector) matchesHeuristic(text string) bool {
	if cuePhraseRE.MatchString(text) {
		return true
	}
	if first := firstWord(text); first != "" {
		if _, ok := imperativeStarts[first]; ok {
			return true
		}
	}
	return dateCueRE.MatchString(text)
}

func firstWord(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Trim(fields[0], ",.;:!?"))
}
