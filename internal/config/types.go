// Package config provides configuration loading for taskd.
package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/taskd/internal/assignment"
	"github.com/fyrsmithlabs/taskd/internal/roster"
)

// Config is the root configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Store      StoreConfig      `koanf:"store"`
	Engine     EngineConfig     `koanf:"engine"`
	Advisory   AdvisoryConfig   `koanf:"advisory"`
	Transcribe TranscribeConfig `koanf:"transcribe"`
	Segment    SegmentConfig    `koanf:"segment"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string            `koanf:"level"`
	Format string            `koanf:"format"`
	Fields map[string]string `koanf:"fields"`
}

// StoreConfig holds the on-disk data directory.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// EngineConfig holds the extraction and assignment knobs.
type EngineConfig struct {
	MatchMode         string  `koanf:"match_mode"`
	ScoringMode       string  `koanf:"scoring_mode"`
	WorkloadMode      string  `koanf:"workload_mode"`
	Capacity          float64 `koanf:"capacity"`
	UrgencyWindowDays int     `koanf:"urgency_window_days"`
	MaxDescriptionLen int     `koanf:"max_description_len"`
	ContextWindow     int     `koanf:"context_window"`

	// MinAdvisorySummaryLen is the advisory summary length above which
	// a segment counts as a candidate without any heuristic match.
	MinAdvisorySummaryLen int `koanf:"min_advisory_summary_len"`
}

// AdvisoryConfig holds the optional LLM advisory settings.
type AdvisoryConfig struct {
	Provider       string  `koanf:"provider"`
	Model          string  `koanf:"model"`
	BaseURL        string  `koanf:"base_url"`
	APIKey         string  `koanf:"api_key"`
	MaxTokens      int     `koanf:"max_tokens"`
	TimeoutSeconds int     `koanf:"timeout_seconds"`
	RateLimit      float64 `koanf:"rate_limit"`
}

// TranscribeConfig holds the speech-to-text service settings.
type TranscribeConfig struct {
	BaseURL        string  `koanf:"base_url"`
	TimeoutSeconds int     `koanf:"timeout_seconds"`
	MaxRetries     int     `koanf:"max_retries"`
	RateLimit      float64 `koanf:"rate_limit"`
}

// SegmentConfig holds transcript segmentation settings.
type SegmentConfig struct {
	Mode       string `koanf:"mode"`
	NLPBaseURL string `koanf:"nlp_base_url"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	if !assignment.MatchMode(c.Engine.MatchMode).Valid() {
		return fmt.Errorf("invalid match_mode %q", c.Engine.MatchMode)
	}
	if !assignment.ScoringMode(c.Engine.ScoringMode).Valid() {
		return fmt.Errorf("invalid scoring_mode %q", c.Engine.ScoringMode)
	}
	if !roster.WorkloadMode(c.Engine.WorkloadMode).Valid() {
		return fmt.Errorf("invalid workload_mode %q", c.Engine.WorkloadMode)
	}
	if c.Engine.Capacity <= 0 {
		return fmt.Errorf("engine capacity must be > 0, got %v", c.Engine.Capacity)
	}
	if c.Engine.UrgencyWindowDays < 0 {
		return fmt.Errorf("urgency_window_days must be >= 0, got %d", c.Engine.UrgencyWindowDays)
	}
	if c.Segment.Mode != "sentence" && c.Segment.Mode != "newline" && c.Segment.Mode != "nlp" {
		return fmt.Errorf("segment mode must be 'sentence', 'newline', or 'nlp', got %q", c.Segment.Mode)
	}
	if c.Segment.Mode == "nlp" && c.Segment.NLPBaseURL == "" {
		return fmt.Errorf("segment mode 'nlp' requires nlp_base_url")
	}
	return nil
}
