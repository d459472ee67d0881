// Package extraction finds actionable task candidates in meeting
// transcript segments using lexical heuristics: cue phrases, imperative
// openers, priority keyword cascades, and deadline patterns. An optional
// advisory suggestion can widen detection but never replaces it.
package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/taskd/internal/advisory"
)

// Priority is the urgency level of a task. It is a closed enum with an
// explicit total order: Low < Medium < High < Critical.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// String returns the canonical display name.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "Critical"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// ParsePriority maps a level name to a Priority, ignoring case so that
// advisory hints like "high" still parse. The second return is false
// for anything outside the four levels, including empty strings.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(s) {
	case "critical":
		return PriorityCritical, true
	case "high":
		return PriorityHigh, true
	case "medium":
		return PriorityMedium, true
	case "low":
		return PriorityLow, true
	default:
		return PriorityMedium, false
	}
}

// MarshalJSON encodes the priority as its display name.
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a display name, rejecting unknown levels.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParsePriority(s)
	if !ok {
		return fmt.Errorf("unknown priority %q", s)
	}
	*p = parsed
	return nil
}

// MarshalYAML encodes the priority as its display name.
func (p Priority) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// UnmarshalYAML decodes a display name, rejecting unknown levels.
func (p *Priority) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, ok := ParsePriority(s)
	if !ok {
		return fmt.Errorf("unknown priority %q", s)
	}
	*p = parsed
	return nil
}

// Detection provenance values recorded on candidates.
const (
	DetectedByHeuristic = "heuristic"
	DetectedByAdvisory  = "advisory"
)

// CandidateTask is a transcript segment classified as actionable,
// before assignment. Immutable once produced.
type CandidateTask struct {
	SegmentIndex   int                     `json:"segment_index"`
	Description    string                  `json:"description"`
	Priority       Priority                `json:"priority"`
	Deadline       string                  `json:"deadline,omitempty"` // ISO date, empty when none
	Context        string                  `json:"context,omitempty"`
	MentionedNames []string                `json:"mentioned_names,omitempty"`
	DetectedBy     string                  `json:"detected_by"`
	Advice         *advisory.SegmentAdvice `json:"-"`
}

// Config holds extraction tunables.
type Config struct {
	// MaxDescriptionLen caps candidate descriptions; longer segments are
	// truncated with an ellipsis.
	MaxDescriptionLen int `json:"max_description_len" yaml:"max_description_len"`

	// ContextWindow is how many segments on each side feed the context field.
	ContextWindow int `json:"context_window" yaml:"context_window"`

	// ContextMaxLen caps the joined context string.
	ContextMaxLen int `json:"context_max_len" yaml:"context_max_len"`

	// MinAdvisorySummaryLen is the minimum advisory summary length before
	// the suggestion alone can mark a segment as a candidate.
	MinAdvisorySummaryLen int `json:"min_advisory_summary_len" yaml:"min_advisory_summary_len"`
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		MaxDescriptionLen:     300,
		ContextWindow:         2,
		ContextMaxLen:         500,
		MinAdvisorySummaryLen: 10,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.MaxDescriptionLen <= 0 {
		c.MaxDescriptionLen = d.MaxDescriptionLen
	}
	if c.ContextWindow <= 0 {
		c.ContextWindow = d.ContextWindow
	}
	if c.ContextMaxLen <= 0 {
		c.ContextMaxLen = d.ContextMaxLen
	}
	if c.MinAdvisorySummaryLen <= 0 {
		c.MinAdvisorySummaryLen = d.MinAdvisorySummaryLen
	}
}
