package pipeline

import (
	"strings"

	"github.com/fyrsmithlabs/taskd/internal/assignment"
)

// dependencyCues are the lexical markers that link a task to earlier work.
var dependencyCues = []string{
	"after", "once", "when", "depends on", "requires", "needs", "first", "before",
}

// Linker adds dependency edges between tasks of one batch.
//
// The heuristic is deliberately coarse: a task whose description carries
// a dependency cue is linked to the immediately preceding task only,
// never to an arbitrary earlier one. True referent search is out of
// scope; the narrow rule keeps the output predictable and explainable.
type Linker struct{}

// NewLinker creates a dependency linker.
func NewLinker() *Linker {
	return &Linker{}
}

// Link returns the tasks extended with dependency sets. The first task
// never gains a dependency, so no forward or self reference can occur.
func (l *Linker) Link(tasks []assignment.AssignedTask) []FinalTask {
	out := make([]FinalTask, len(tasks))
	for i, t := range tasks {
		final := FinalTask{AssignedTask: t}
		if i > 0 && hasDependencyCue(t.Description) {
			final.Dependencies = []int{i - 1}
		}
		out[i] = final
	}
	return out
}

func hasDependencyCue(text string) bool {
	lower := strings.ToLower(text)
	for _, cue := range dependencyCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}
