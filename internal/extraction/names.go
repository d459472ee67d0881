package extraction

import (
	"regexp"
)

// nameTokenRE is the fallback person detector used when no external NER
// result is supplied: capitalized tokens, deduplicated in order. False
// positives are inert because only roster matches ever assign anyone.
var nameTokenRE = regexp.MustCompile(`\b([A-Z][a-z]{1,30})\b`)

// GuessNames extracts likely person names from a segment.
func GuessNames(text string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range nameTokenRE.FindAllStringSubmatch(text, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}
