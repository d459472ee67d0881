// Package transcribe converts meeting audio into raw transcript text
// through an OpenAI-compatible speech-to-text service.
package transcribe

import (
	"context"
	"errors"
	"io"
)

// ErrDisabled is returned when no transcription backend is configured.
var ErrDisabled = errors.New("transcription disabled")

// Transcriber turns an audio stream into transcript text.
type Transcriber interface {
	// Transcribe reads the full audio stream and returns the transcript.
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)

	// Available reports whether a backend is configured.
	Available() bool
}

// Config holds speech-to-text client settings.
type Config struct {
	// BaseURL of the whisper-compatible service. Empty disables
	// transcription; text uploads still work.
	BaseURL string

	APIKey         string
	Model          string
	TimeoutSeconds int
	MaxRetries     int

	// RateLimit caps requests per second toward the service.
	RateLimit float64
}

// DefaultConfig returns the default transcription settings.
func DefaultConfig() Config {
	return Config{
		Model:          "whisper-1",
		TimeoutSeconds: 120,
		MaxRetries:     3,
		RateLimit:      1,
	}
}

// New creates a Transcriber from config. An empty base URL yields the
// disabled implementation.
func New(cfg Config) Transcriber {
	if cfg.BaseURL == "" {
		return &NoOpTranscriber{}
	}
	return NewWhisperClient(cfg)
}

// NoOpTranscriber rejects every request. Used when no service is
// configured so callers can degrade to text-only input.
type NoOpTranscriber struct{}

var _ Transcriber = (*NoOpTranscriber)(nil)

func (n *NoOpTranscriber) Transcribe(context.Context, io.Reader, string) (string, error) {
	return "", ErrDisabled
}

func (n *NoOpTranscriber) Available() bool { return false }
