package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const unassignedLabel = "Unassigned"

// buildSummary aggregates priority and assignee counts and renders the
// human-readable report shown after a run.
func buildSummary(tasks []FinalTask, duration time.Duration) RunSummary {
	summary := RunSummary{
		TotalTasks: len(tasks),
		ByPriority: make(map[string]int),
		ByAssignee: make(map[string]int),
		Duration:   duration,
	}

	for _, t := range tasks {
		summary.ByPriority[t.Priority.String()]++
		assignee := t.AssigneeName
		if assignee == "" {
			assignee = unassignedLabel
		}
		summary.ByAssignee[assignee]++
	}

	summary.Text = renderSummary(summary)
	return summary
}

func renderSummary(s RunSummary) string {
	if s.TotalTasks == 0 {
		return "No actionable tasks were found in the transcript."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Processing Time: %.2f seconds\n\n", s.Duration.Seconds())
	fmt.Fprintf(&b, "Total Tasks Identified: %d\n\n", s.TotalTasks)

	b.WriteString("Priority Breakdown:\n")
	for _, priority := range sortedKeys(s.ByPriority) {
		fmt.Fprintf(&b, "  - %s: %d\n", priority, s.ByPriority[priority])
	}

	b.WriteString("\nAssignment Breakdown:\n")
	for _, assignee := range sortedKeys(s.ByAssignee) {
		fmt.Fprintf(&b, "  - %s: %d task(s)\n", assignee, s.ByAssignee[assignee])
	}

	return b.String()
}

// sortedKeys keeps the rendering deterministic across runs.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
