package advisory

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

const advicePromptTemplate = `You are an assistant that helps extract task-related information from a meeting utterance.
Return strictly valid JSON with keys:
- summary: a single short action-style sentence (or empty string)
- persons: list of person names mentioned (may be empty)
- date_phrases: list of natural-language date phrases found (e.g., "by Friday")
- priority_hint: one of ["Critical","High","Medium","Low",""] (or empty)
- dependencies: list of phrases indicating dependencies (e.g., "after design is ready")
- context_notes: short notes (blockers, constraints) or empty

Reference meeting date (ISO): %s

Utterance: %s`

// LLMAdvisor asks a language model for per-segment suggestions via
// langchaingo. Temperature is pinned to zero so repeated runs over the
// same transcript stay as reproducible as the provider allows.
type LLMAdvisor struct {
	model     llms.Model
	limiter   *rate.Limiter
	timeout   time.Duration
	maxTokens int
}

// NewLLMAdvisor builds an advisor for the configured provider.
func NewLLMAdvisor(cfg Config) (*LLMAdvisor, error) {
	var (
		model llms.Model
		err   error
	)

	switch cfg.Provider {
	case "ollama":
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		model, err = ollama.New(opts...)
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key required")
		}
		opts := []openai.Option{openai.WithToken(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)
	default:
		return nil, fmt.Errorf("unknown advisory provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s advisor: %w", cfg.Provider, err)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 2
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 512
	}

	return &LLMAdvisor{
		model:     model,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		timeout:   timeout,
		maxTokens: maxTokens,
	}, nil
}

// Analyze sends the segment to the model and parses the suggestion.
// The external call is never retried automatically: a failed or
// malformed response surfaces once and the caller falls back to
// heuristics for that segment.
func (a *LLMAdvisor) Analyze(ctx context.Context, segment string, meetingDate string) (*SegmentAdvice, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := fmt.Sprintf(advicePromptTemplate, meetingDate, segment)
	raw, err := llms.GenerateFromSinglePrompt(callCtx, a.model, prompt,
		llms.WithTemperature(0),
		llms.WithMaxTokens(a.maxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("advisory call failed: %w", err)
	}

	return ParseAdvice(raw)
}

// Available reports true once the underlying model is constructed.
func (a *LLMAdvisor) Available() bool {
	return a.model != nil
}

var _ Advisor = (*LLMAdvisor)(nil)
