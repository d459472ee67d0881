// Package assignment chooses one person per candidate task. Explicit
// mentions override scoring; otherwise the highest deterministic score
// wins, with workload as tie-break and fallback. Every decision carries
// a human-readable reasoning string and a structured record for audit.
package assignment

import (
	"errors"
	"time"

	"github.com/fyrsmithlabs/taskd/internal/extraction"
	"github.com/fyrsmithlabs/taskd/internal/roster"
)

// ErrEmptyRoster reports that no people are available for assignment.
// It is fatal for the batch: the engine cannot assign without a roster.
var ErrEmptyRoster = errors.New("assignment: empty roster")

// MatchMode selects how mentioned names are matched against the roster.
// Deployments disagree on how strict matching should be, so both modes
// stay configurable; neither is silently preferred.
type MatchMode string

const (
	// MatchExactName compares a detected name token against a roster
	// member's full name, case-insensitively.
	MatchExactName MatchMode = "exact_name"

	// MatchSubstring looks for the member's name, case-insensitively,
	// anywhere inside the segment text.
	MatchSubstring MatchMode = "substring"
)

// Valid reports whether the mode is supported.
func (m MatchMode) Valid() bool {
	return m == MatchExactName || m == MatchSubstring
}

// ScoringMode selects the affinity formula.
type ScoringMode string

const (
	// ScoreWeightedContinuous blends skill match, role fit, and
	// availability with fixed weights plus priority and urgency boosts.
	ScoreWeightedContinuous ScoringMode = "weighted_continuous"

	// ScoreCategoryDiscrete awards +2 per matched skill-category keyword
	// and subtracts half the integer workload as a penalty.
	ScoreCategoryDiscrete ScoringMode = "category_discrete"
)

// Valid reports whether the mode is supported.
func (m ScoringMode) Valid() bool {
	return m == ScoreWeightedContinuous || m == ScoreCategoryDiscrete
}

// Decision rule identifiers recorded on every assignment.
const (
	RuleExplicitMention = "explicit_mention"
	RuleSkillScoring    = "skill_scoring"
	RuleLowestWorkload  = "lowest_workload"
)

// Decision is the structured account of one assignment, suitable for
// provenance display alongside the reasoning string.
type Decision struct {
	Rule          string   `json:"rule"`
	MatchedName   string   `json:"matched_name,omitempty"`
	Score         float64  `json:"score,omitempty"`
	MatchedSkills []string `json:"matched_skills,omitempty"`
}

// AssignedTask extends a candidate with its assignee and the decision
// record. The candidate is embedded by value; selection never mutates
// the input candidate.
type AssignedTask struct {
	extraction.CandidateTask

	AssigneeID   string   `json:"assignee_id,omitempty"`
	AssigneeName string   `json:"assignee_name,omitempty"`
	Reasoning    string   `json:"reasoning"`
	Decision     Decision `json:"decision"`
}

// Config holds assignment tunables.
type Config struct {
	MatchMode    MatchMode           `json:"match_mode" yaml:"match_mode"`
	ScoringMode  ScoringMode         `json:"scoring_mode" yaml:"scoring_mode"`
	WorkloadMode roster.WorkloadMode `json:"workload_mode" yaml:"workload_mode"`

	// Capacity normalizes integer workload counts into [0,1] for the
	// availability term of the continuous formula.
	Capacity float64 `json:"capacity" yaml:"capacity"`

	// UrgencyWindowDays is how close a deadline must be, measured from
	// the processing date, before the urgency boost applies.
	UrgencyWindowDays int `json:"urgency_window_days" yaml:"urgency_window_days"`

	// Now supplies the processing date for urgency checks. Tests inject
	// a fixed clock; nil means time.Now.
	Now func() time.Time `json:"-" yaml:"-"`
}

// DefaultConfig returns the default assignment configuration.
func DefaultConfig() Config {
	return Config{
		MatchMode:         MatchExactName,
		ScoringMode:       ScoreWeightedContinuous,
		WorkloadMode:      roster.WorkloadIntegerCount,
		Capacity:          roster.DefaultCapacity,
		UrgencyWindowDays: 2,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if !c.MatchMode.Valid() {
		c.MatchMode = d.MatchMode
	}
	if !c.ScoringMode.Valid() {
		c.ScoringMode = d.ScoringMode
	}
	if !c.WorkloadMode.Valid() {
		c.WorkloadMode = d.WorkloadMode
	}
	if c.Capacity <= 0 {
		c.Capacity = d.Capacity
	}
	if c.UrgencyWindowDays <= 0 {
		c.UrgencyWindowDays = d.UrgencyWindowDays
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}
