package segment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// NLPSegmenter delegates sentence splitting to an external NLP service
// and falls back to the local sentence splitter when the service is
// unreachable or returns garbage.
type NLPSegmenter struct {
	baseURL  string
	client   *http.Client
	fallback *SentenceSegmenter
	logger   *zap.Logger
}

var _ Segmenter = (*NLPSegmenter)(nil)

// NewNLPSegmenter creates a client for the given service base URL.
func NewNLPSegmenter(baseURL string) *NLPSegmenter {
	return &NLPSegmenter{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 15 * time.Second},
		fallback: &SentenceSegmenter{},
		logger:   zap.NewNop(),
	}
}

// WithLogger sets the logger used for fallback warnings.
func (s *NLPSegmenter) WithLogger(logger *zap.Logger) *NLPSegmenter {
	if logger != nil {
		s.logger = logger
	}
	return s
}

type segmentRequest struct {
	Text string `json:"text"`
}

type segmentResponse struct {
	Sentences []string `json:"sentences"`
}

func (s *NLPSegmenter) Segment(ctx context.Context, transcript string) ([]string, error) {
	segments, err := s.remote(ctx, transcript)
	if err != nil {
		s.logger.Warn("nlp segmentation failed, using local splitter", zap.Error(err))
		return s.fallback.Segment(ctx, transcript)
	}
	return segments, nil
}

func (s *NLPSegmenter) remote(ctx context.Context, transcript string) ([]string, error) {
	body, err := json.Marshal(segmentRequest{Text: transcript})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/segment", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling segment service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("segment service status %d: %s", resp.StatusCode, string(respBody))
	}

	var decoded segmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(decoded.Sentences) == 0 {
		return nil, fmt.Errorf("segment service returned no sentences")
	}

	var segments []string
	for _, sentence := range decoded.Sentences {
		if trimmed := strings.TrimSpace(sentence); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments, nil
}
