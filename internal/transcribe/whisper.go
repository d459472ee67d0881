package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// WhisperClient calls an OpenAI-compatible /v1/audio/transcriptions
// endpoint. Transient failures are retried with exponential backoff;
// 4xx responses other than 429 fail immediately.
type WhisperClient struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter

	// initialBackoff is shortened in tests.
	initialBackoff time.Duration
}

var _ Transcriber = (*WhisperClient)(nil)

// NewWhisperClient creates a client for the configured service.
func NewWhisperClient(cfg Config) *WhisperClient {
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 120
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	return &WhisperClient{
		cfg:            cfg,
		client:         &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		limiter:        rate.NewLimiter(limit, 1),
		initialBackoff: time.Second,
	}
}

func (c *WhisperClient) Available() bool { return true }

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the audio as multipart form data and returns the
// transcript text. The audio is buffered in memory so the request can
// be retried.
func (c *WhisperClient) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(audio)
	if err != nil {
		return "", fmt.Errorf("reading audio: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty audio stream")
	}

	var lastErr error
	backoff := c.initialBackoff
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}

		text, retryable, err := c.request(ctx, data, filename)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable || attempt == c.cfg.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("transcription canceled: %w", ctx.Err())
		case <-time.After(backoff):
			backoff *= 2
		}
	}
	return "", fmt.Errorf("transcription failed: %w", lastErr)
}

func (c *WhisperClient) request(ctx context.Context, data []byte, filename string) (string, bool, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", false, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", false, fmt.Errorf("writing audio: %w", err)
	}
	if err := writer.WriteField("model", c.cfg.Model); err != nil {
		return "", false, fmt.Errorf("writing model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", false, fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("calling transcription service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return "", retryable, fmt.Errorf("transcription service status %d: %s", resp.StatusCode, string(respBody))
	}

	var decoded transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", false, fmt.Errorf("decoding response: %w", err)
	}
	return decoded.Text, false, nil
}
