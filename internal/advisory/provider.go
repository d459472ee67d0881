package advisory

import (
	"context"
)

// NewAdvisor creates an advisor based on configuration. A disabled or
// empty provider yields the NoOp advisor so the pipeline can always hold
// a non-nil Advisor.
func NewAdvisor(cfg Config) (Advisor, error) {
	switch cfg.Provider {
	case "", "disabled":
		return &NoOpAdvisor{}, nil
	default:
		return NewLLMAdvisor(cfg)
	}
}

// NoOpAdvisor is the heuristics-only stand-in used when no model is configured.
type NoOpAdvisor struct{}

// Analyze returns no advice.
func (n *NoOpAdvisor) Analyze(ctx context.Context, segment string, meetingDate string) (*SegmentAdvice, error) {
	return nil, nil
}

// Available returns false for NoOpAdvisor.
func (n *NoOpAdvisor) Available() bool {
	return false
}

var _ Advisor = (*NoOpAdvisor)(nil)
