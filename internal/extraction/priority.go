package extraction

import (
	"regexp"
)

// priorityRule pairs a level with its cue pattern. Rules are evaluated
// as an ordered cascade, so conflicting signals ("urgent ... by next
// week") always resolve to the highest-precedence rule, never a blend.
type priorityRule struct {
	level Priority
	re    *regexp.Regexp
}

var priorityCascade = []priorityRule{
	{PriorityCritical, regexp.MustCompile(`(?i)\b(critical|urgent|asap|blocking|blocker|immediately|emergency)\b`)},
	{PriorityHigh, regexp.MustCompile(`(?i)(high priority|\bimportant\b|\bby (tomorrow|eod|end of day|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b|\bsoon\b|\bquickly\b)`)},
	{PriorityMedium, regexp.MustCompile(`(?i)(this week|next week|within a week|\bnormal\b|\bregular\b)`)},
	{PriorityLow, regexp.MustCompile(`(?i)(low priority|when possible|\beventually\b|nice to have)`)},
}

// Classifier maps a segment to a discrete urgency level by keyword
// precedence.
type Classifier struct{}

// NewClassifier creates a priority classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the first cascade level whose pattern matches,
// defaulting to Medium.
func (c *Classifier) Classify(text string) Priority {
	for _, rule := range priorityCascade {
		if rule.re.MatchString(text) {
			return rule.level
		}
	}
	return PriorityMedium
}

// ClassifyWithHint prefers a valid advisory hint over the heuristic
// cascade. Empty or unknown hints fall back to Classify.
func (c *Classifier) ClassifyWithHint(text, hint string) Priority {
	if p, ok := ParsePriority(hint); ok {
		return p
	}
	return c.Classify(text)
}
