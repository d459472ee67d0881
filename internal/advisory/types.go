// Package advisory integrates an optional language model that proposes
// task candidates for transcript segments. The suggestion is untrusted:
// the deterministic engine may consult it but never depends on it, and
// any malformed or missing response degrades to heuristics only.
package advisory

import (
	"context"
)

// SegmentAdvice is the structured suggestion for one transcript segment.
// Every field is optional; missing keys default to their zero value.
type SegmentAdvice struct {
	Summary      string   `json:"summary"`
	Persons      []string `json:"persons"`
	DatePhrases  []string `json:"date_phrases"`
	PriorityHint string   `json:"priority_hint"`
	Dependencies []string `json:"dependencies"`
	ContextNotes string   `json:"context_notes"`

	// Raw preserves the model output verbatim for provenance records.
	Raw string `json:"-"`
}

// Advisor produces a suggestion for a single segment.
type Advisor interface {
	// Analyze returns advice for the segment. A nil advice with nil error
	// means the advisor had nothing to offer; callers treat both nil and
	// error results as "heuristics only".
	Analyze(ctx context.Context, segment string, meetingDate string) (*SegmentAdvice, error)

	// Available reports whether the advisor is configured and ready.
	Available() bool
}

// Config holds advisory provider configuration.
type Config struct {
	// Provider is one of "disabled", "ollama", "openai".
	Provider string `json:"provider" yaml:"provider"`

	Model     string `json:"model" yaml:"model"`
	BaseURL   string `json:"base_url" yaml:"base_url"`
	APIKey    string `json:"api_key" yaml:"api_key"`
	MaxTokens int    `json:"max_tokens" yaml:"max_tokens"`

	// TimeoutSeconds bounds a single model call. The pipeline never
	// blocks a batch on a slow advisor beyond this.
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds"`

	// RateLimit is requests per second allowed against the provider.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`
}

// DefaultConfig returns the default advisory configuration (disabled).
func DefaultConfig() Config {
	return Config{
		Provider:       "disabled",
		MaxTokens:      512,
		TimeoutSeconds: 30,
		RateLimit:      2,
	}
}
