package advisory

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrMalformed reports that the model output carried no parseable JSON
// object. Callers recover by discarding the advice.
var ErrMalformed = errors.New("advisory: malformed model output")

var jsonBlockRE = regexp.MustCompile(`(?s)\{.*\}`)

// ParseAdvice extracts a SegmentAdvice from raw model output.
//
// Models rarely return bare JSON; the object is usually wrapped in prose
// or a code fence. The parser takes the first {...} block it can find and
// unmarshals it leniently: unknown keys are ignored and missing keys keep
// their zero values. Anything less structured than that is ErrMalformed.
func ParseAdvice(raw string) (*SegmentAdvice, error) {
	block := jsonBlockRE.FindString(raw)
	if block == "" {
		return nil, ErrMalformed
	}

	var advice SegmentAdvice
	if err := json.Unmarshal([]byte(block), &advice); err != nil {
		return nil, ErrMalformed
	}

	advice.Summary = strings.TrimSpace(advice.Summary)
	advice.PriorityHint = strings.TrimSpace(advice.PriorityHint)
	advice.Persons = trimAll(advice.Persons)
	advice.DatePhrases = trimAll(advice.DatePhrases)
	advice.Dependencies = trimAll(advice.Dependencies)
	advice.Raw = raw
	return &advice, nil
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
