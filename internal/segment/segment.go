// Package segment splits raw transcripts into the ordered utterances the
// extraction pipeline consumes.
package segment

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Segmenter splits a transcript into ordered segments. Implementations
// must preserve utterance order and drop empty segments.
type Segmenter interface {
	Segment(ctx context.Context, transcript string) ([]string, error)
}

// Mode names for the factory.
const (
	ModeSentence = "sentence"
	ModeNewline  = "newline"
	ModeNLP      = "nlp"
)

// New creates a segmenter for the given mode. Mode "nlp" requires a
// service base URL and falls back to sentence splitting when the
// service is unreachable.
func New(mode, nlpBaseURL string) (Segmenter, error) {
	switch mode {
	case ModeSentence, "":
		return &SentenceSegmenter{}, nil
	case ModeNewline:
		return &NewlineSegmenter{}, nil
	case ModeNLP:
		if nlpBaseURL == "" {
			return nil, fmt.Errorf("nlp segmenter requires a base URL")
		}
		return NewNLPSegmenter(nlpBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown segment mode %q", mode)
	}
}

// NewlineSegmenter treats each non-empty line as one utterance. Useful
// for transcripts that carry one speaker turn per line.
type NewlineSegmenter struct{}

var _ Segmenter = (*NewlineSegmenter)(nil)

func (s *NewlineSegmenter) Segment(_ context.Context, transcript string) ([]string, error) {
	var segments []string
	for _, line := range strings.Split(transcript, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments, nil
}

// sentenceEndRE finds sentence boundaries: a terminator followed by
// whitespace. Trailing terminators without following text close the
// last sentence.
var sentenceEndRE = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

// SentenceSegmenter splits on sentence terminators. It keeps the
// terminator with its sentence and ignores decimal points inside
// numbers by requiring whitespace after the terminator.
type SentenceSegmenter struct{}

var _ Segmenter = (*SentenceSegmenter)(nil)

func (s *SentenceSegmenter) Segment(_ context.Context, transcript string) ([]string, error) {
	text := strings.TrimSpace(transcript)
	if text == "" {
		return nil, nil
	}

	var segments []string
	last := 0
	for _, loc := range sentenceEndRE.FindAllStringIndex(text, -1) {
		sentence := strings.TrimSpace(text[last:loc[1]])
		if sentence != "" {
			segments = append(segments, sentence)
		}
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		segments = append(segments, rest)
	}
	return segments, nil
}
