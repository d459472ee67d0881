package assignment

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/taskd/internal/extraction"
	"github.com/fyrsmithlabs/taskd/internal/roster"
)

// Selector assigns one person to each candidate task.
type Selector struct {
	cfg      Config
	resolver *MentionResolver
	scorer   *Scorer
}

// NewSelector creates a selector.
func NewSelector(cfg Config) *Selector {
	cfg.applyDefaults()
	return &Selector{
		cfg:      cfg,
		resolver: NewMentionResolver(cfg.MatchMode),
		scorer:   NewScorer(cfg),
	}
}

// Select chooses the assignee for the candidate. Precedence, first
// applicable rule wins with no blending:
//
//  1. explicit mention matched against the roster,
//  2. strict-maximum score across the roster (first seen wins ties),
//  3. lowest current workload, when the discrete score tops out at zero
//     or below.
//
// On selection the chosen person's workload is incremented by 1 in
// integer-count mode, so the next task in the batch sees the updated
// availability. The candidate itself is never mutated; a new record is
// returned.
func (s *Selector) Select(task extraction.CandidateTask, team []*roster.Person) (AssignedTask, error) {
	if len(team) == 0 {
		return AssignedTask{}, ErrEmptyRoster
	}

	assigned := AssignedTask{CandidateTask: task}

	if len(task.MentionedNames) > 0 {
		if person, literal := s.resolver.Resolve(task.MentionedNames, task.Description, team); person != nil {
			assigned.AssigneeID = person.ID
			assigned.AssigneeName = person.Name
			assigned.Reasoning = fmt.Sprintf("explicitly mentioned in discussion: %q", literal)
			assigned.Decision = Decision{Rule: RuleExplicitMention, MatchedName: literal}
			s.bumpWorkload(person)
			return assigned, nil
		}
	}

	best, bestScore, bestMatched := s.pickByScore(task, team)

	if s.cfg.ScoringMode == ScoreCategoryDiscrete && bestScore <= 0 {
		fallback := lowestWorkload(team)
		assigned.AssigneeID = fallback.ID
		assigned.AssigneeName = fallback.Name
		assigned.Reasoning = "assigned based on lowest current workload"
		assigned.Decision = Decision{Rule: RuleLowestWorkload}
		s.bumpWorkload(fallback)
		return assigned, nil
	}

	assigned.AssigneeID = best.ID
	assigned.AssigneeName = best.Name
	assigned.Reasoning = scoringReasoning(bestScore, bestMatched)
	assigned.Decision = Decision{Rule: RuleSkillScoring, Score: bestScore, MatchedSkills: bestMatched}
	s.bumpWorkload(best)
	return assigned, nil
}

// pickByScore scores every roster member and returns the strict maximum.
// Comparison is "greater than", never "greater or equal", so an exact
// tie keeps the earlier roster member.
func (s *Selector) pickByScore(task extraction.CandidateTask, team []*roster.Person) (*roster.Person, float64, []string) {
	now := s.cfg.Now()

	var (
		best        *roster.Person
		bestScore   float64
		bestMatched []string
	)
	for _, p := range team {
		score, matched := s.scorer.Score(p, task.Description, task.Priority, task.Deadline, now)
		if best == nil || score > bestScore {
			best = p
			bestScore = score
			bestMatched = matched
		}
	}
	return best, bestScore, bestMatched
}

func (s *Selector) bumpWorkload(p *roster.Person) {
	if s.cfg.WorkloadMode == roster.WorkloadIntegerCount {
		p.Workload++
	}
}

func lowestWorkload(team []*roster.Person) *roster.Person {
	min := team[0]
	for _, p := range team[1:] {
		if p.Workload < min.Workload {
			min = p
		}
	}
	return min
}

func scoringReasoning(score float64, matched []string) string {
	if len(matched) > 0 {
		return fmt.Sprintf("best skill match: %s (score: %.2f)", strings.Join(matched, ", "), score)
	}
	return fmt.Sprintf("highest assignment score (%.2f)", score)
}
