package extraction

import (
	"strings"
	"time"

	"github.com/fyrsmithlabs/taskd/internal/advisory"
)

// Extractor composes the detector, classifier, and deadline extractor
// into a per-segment candidate builder.
type Extractor struct {
	cfg        Config
	detector   *Detector
	classifier *Classifier
	deadlines  *DeadlineExtractor
}

// NewExtractor creates an extractor with the given configuration.
func NewExtractor(cfg Config) *Extractor {
	cfg.applyDefaults()
	return &Extractor{
		cfg:        cfg,
		detector:   NewDetector(cfg),
		classifier: NewClassifier(),
		deadlines:  NewDeadlineExtractor(),
	}
}

// Detector exposes the candidate detector for callers that only classify.
func (e *Extractor) Detector() *Detector {
	return e.detector
}

// Candidate builds a CandidateTask for segments[idx], or returns false
// when the segment is not actionable. The advice argument may be nil.
//
// Field provenance: description, priority, and deadline come from the
// segment text; advice may override priority (valid hint) and supply
// names or a deadline phrase when the text itself yields none. Mentioned
// names fall back to capitalized-token guessing when no advisory or NER
// names exist.
func (e *Extractor) Candidate(segments []string, idx int, ref time.Time, advice *advisory.SegmentAdvice) (CandidateTask, bool) {
	text := segments[idx]
	if !e.detector.IsCandidate(text, advice) {
		return CandidateTask{}, false
	}

	detectedBy := DetectedByHeuristic
	if !e.detector.MatchesHeuristic(text) {
		detectedBy = DetectedByAdvisory
	}

	hint := ""
	if advice != nil {
		hint = advice.PriorityHint
	}
	priority := e.classifier.ClassifyWithHint(text, hint)

	deadline, ok := e.deadlines.Extract(text, ref)
	if !ok && advice != nil {
		// The advisory may have spotted a phrase the patterns missed;
		// resolution stays deterministic either way.
		for _, phrase := range advice.DatePhrases {
			if deadline, ok = e.deadlines.Extract(phrase, ref); ok {
				break
			}
		}
	}

	var names []string
	if advice != nil && len(advice.Persons) > 0 {
		names = append([]string(nil), advice.Persons...)
	} else {
		names = GuessNames(text)
	}

	return CandidateTask{
		SegmentIndex:   idx,
		Description:    truncate(strings.TrimSpace(text), e.cfg.MaxDescriptionLen),
		Priority:       priority,
		Deadline:       deadline,
		Context:        e.buildContext(segments, idx),
		MentionedNames: names,
		DetectedBy:     detectedBy,
		Advice:         advice,
	}, true
}

// buildContext joins the surrounding segment window, capped in length.
func (e *Extractor) buildContext(segments []string, idx int) string {
	start := idx - e.cfg.ContextWindow
	if start < 0 {
		start = 0
	}
	end := idx + e.cfg.ContextWindow + 1
	if end > len(segments) {
		end = len(segments)
	}
	return truncate(strings.Join(segments[start:end], " "), e.cfg.ContextMaxLen)
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
