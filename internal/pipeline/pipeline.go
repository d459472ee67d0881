package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskd/internal/advisory"
	"github.com/fyrsmithlabs/taskd/internal/assignment"
	"github.com/fyrsmithlabs/taskd/internal/extraction"
	"github.com/fyrsmithlabs/taskd/internal/roster"
)

// Result is the output of one pipeline run.
type Result struct {
	Tasks   []FinalTask `json:"tasks"`
	Summary RunSummary  `json:"summary"`

	// Roster is the run's snapshot with accumulated workload deltas,
	// ready for a transactional write-back by the caller.
	Roster []*roster.Person `json:"-"`
}

// Pipeline wires detector, classifier, extractors, selector, and linker
// over an ordered list of segments.
type Pipeline struct {
	extractor *extraction.Extractor
	selector  *assignment.Selector
	linker    *Linker
	advisor   advisory.Advisor
	logger    *zap.Logger
}

// New creates a pipeline. advisor may be nil for heuristics-only runs.
func New(cfg Config, advisor advisory.Advisor, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		extractor: extraction.NewExtractor(cfg.Extraction),
		selector:  assignment.NewSelector(cfg.Assignment),
		linker:    NewLinker(),
		advisor:   advisor,
		logger:    logger,
	}
}

// Run processes the segments in order and returns the final task list.
//
// The segment loop is sequential by contract, not convenience: segment
// N's assignment increments the chosen person's workload, and segment
// N+1's scoring must observe that increment. The run mutates only its
// own roster snapshot, so independent transcripts may be processed
// concurrently.
//
// A transcript yielding zero candidates is a valid empty result. An
// empty roster is a precondition failure surfaced to the caller.
func (p *Pipeline) Run(ctx context.Context, segments []string, refDate time.Time, team []*roster.Person) (*Result, error) {
	if len(team) == 0 {
		return nil, fmt.Errorf("cannot process transcript: %w", assignment.ErrEmptyRoster)
	}

	start := time.Now()
	snapshot := roster.Snapshot(team)
	meetingDate := refDate.Format(extraction.ISODate)

	var assigned []assignment.AssignedTask
	for idx, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			continue
		}

		advice := p.advise(ctx, segment, meetingDate)

		candidate, ok := p.extractor.Candidate(segments, idx, refDate, advice)
		if !ok {
			continue
		}

		task, err := p.selector.Select(candidate, snapshot)
		if err != nil {
			return nil, err
		}

		p.logger.Debug("task extracted",
			zap.Int("segment", idx),
			zap.String("priority", task.Priority.String()),
			zap.String("assignee", task.AssigneeName),
			zap.String("rule", task.Decision.Rule),
		)
		assigned = append(assigned, task)
	}

	tasks := p.linker.Link(assigned)
	summary := buildSummary(tasks, time.Since(start))

	p.logger.Info("transcript processed",
		zap.Int("segments", len(segments)),
		zap.Int("tasks", len(tasks)),
		zap.Duration("duration", summary.Duration),
	)

	return &Result{
		Tasks:   tasks,
		Summary: summary,
		Roster:  snapshot,
	}, nil
}

// advise consults the advisor when one is configured. Failures and
// malformed responses are logged and discarded; the batch never fails
// on advisory input.
func (p *Pipeline) advise(ctx context.Context, segment, meetingDate string) *advisory.SegmentAdvice {
	if p.advisor == nil || !p.advisor.Available() {
		return nil
	}
	advice, err := p.advisor.Analyze(ctx, segment, meetingDate)
	if err != nil {
		p.logger.Warn("advisory discarded", zap.Error(err))
		return nil
	}
	return advice
}
