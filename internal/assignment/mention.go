package assignment

import (
	"strings"

	"github.com/fyrsmithlabs/taskd/internal/roster"
)

// MentionResolver matches detected person names against the roster.
type MentionResolver struct {
	mode MatchMode
}

// NewMentionResolver creates a resolver for the given match mode.
func NewMentionResolver(mode MatchMode) *MentionResolver {
	if !mode.Valid() {
		mode = MatchExactName
	}
	return &MentionResolver{mode: mode}
}

// Resolve returns the first roster member matched by the configured
// mode, plus the literal that matched, or nil when nobody matches.
//
// In exact_name mode the detected names are checked in the order they
// appear, each against the roster in roster order. In substring mode the
// roster is walked in order looking for each member's name inside the
// segment text.
func (r *MentionResolver) Resolve(names []string, text string, team []*roster.Person) (*roster.Person, string) {
	switch r.mode {
	case MatchSubstring:
		lower := strings.ToLower(text)
		for _, p := range team {
			if p.Name == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(p.Name)) {
				return p, p.Name
			}
		}
	default:
		for _, name := range names {
			for _, p := range team {
				if strings.EqualFold(name, p.Name) {
					return p, name
				}
			}
		}
	}
	return nil, ""
}
