package assignment

import (
	"strings"
	"time"

	"github.com/fyrsmithlabs/taskd/internal/extraction"
	"github.com/fyrsmithlabs/taskd/internal/roster"
)

// Weights and boosts of the continuous formula. Fixed constants, not
// learned.
const (
	weightSkillMatch   = 0.6
	weightRoleFit      = 0.25
	weightAvailability = 0.15

	boostCritical = 0.12
	boostHigh     = 0.07

	urgencyBoostFactor = 0.05

	categoryHitScore        = 2.0
	discreteWorkloadPenalty = 0.5
)

// skillCategoryKeywords maps named skill categories to the task-text
// keywords that count as a hit for the discrete formula.
var skillCategoryKeywords = map[string][]string{
	"frontend":      {"ui", "interface", "design", "frontend", "react", "vue", "css", "html"},
	"backend":       {"api", "database", "server", "backend", "python", "java", "node"},
	"devops":        {"deploy", "deployment", "ci/cd", "docker", "kubernetes", "aws", "cloud"},
	"testing":       {"test", "qa", "quality", "bug", "testing", "automation"},
	"documentation": {"document", "documentation", "wiki", "guide", "readme"},
	"data":          {"data", "analytics", "ml", "machine learning", "model", "dataset"},
	"management":    {"schedule", "coordinate", "organize", "meeting", "plan"},
}

// skillCategories is the deterministic iteration order for the table above.
var skillCategories = []string{
	"frontend", "backend", "devops", "testing", "documentation", "data", "management",
}

// Scorer computes a person's affinity for a task. Scoring is pure: it
// never mutates the person and the same inputs always produce the same
// number.
type Scorer struct {
	cfg Config
}

// NewScorer creates a scorer.
func NewScorer(cfg Config) *Scorer {
	cfg.applyDefaults()
	return &Scorer{cfg: cfg}
}

// Score returns the affinity of p for the task text along with the skill
// tokens or categories that matched, for use in reasoning strings.
func (s *Scorer) Score(p *roster.Person, text string, priority extraction.Priority, deadline string, now time.Time) (float64, []string) {
	if s.cfg.ScoringMode == ScoreCategoryDiscrete {
		return s.scoreDiscrete(p, text)
	}
	return s.scoreContinuous(p, text, priority, deadline, now)
}

func (s *Scorer) scoreContinuous(p *roster.Person, text string, priority extraction.Priority, deadline string, now time.Time) (float64, []string) {
	lower := strings.ToLower(text)

	var matched []string
	for _, skill := range p.Skills {
		if skill != "" && strings.Contains(lower, strings.ToLower(skill)) {
			matched = append(matched, skill)
		}
	}
	denom := len(p.Skills)
	if denom < 1 {
		denom = 1
	}
	skillMatch := float64(len(matched)) / float64(denom)

	roleFit := 0.0
	if role := strings.ToLower(p.Role); role != "" && strings.Contains(lower, role) {
		roleFit = 1.0
	}

	availability := 1.0 - p.NormalizedWorkload(s.cfg.WorkloadMode, s.cfg.Capacity)

	score := weightSkillMatch*skillMatch + weightRoleFit*roleFit + weightAvailability*availability

	switch priority {
	case extraction.PriorityCritical:
		score += boostCritical
	case extraction.PriorityHigh:
		score += boostHigh
	}

	if extraction.DueWithin(deadline, s.cfg.UrgencyWindowDays, now) {
		score += urgencyBoostFactor * availability
	}

	return score, matched
}

func (s *Scorer) scoreDiscrete(p *roster.Person, text string) (float64, []string) {
	lower := strings.ToLower(text)

	score := 0.0
	var matched []string
	for _, category := range skillCategories {
		if !p.HasSkill(category) {
			continue
		}
		for _, kw := range skillCategoryKeywords[category] {
			if strings.Contains(lower, kw) {
				score += categoryHitScore
				matched = append(matched, category)
				break
			}
		}
	}

	score -= discreteWorkloadPenalty * p.Workload
	return score, matched
}
