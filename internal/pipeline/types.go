// Package pipeline sequences the extraction and assignment stages over
// an ordered transcript, links dependencies between the resulting tasks,
// and produces the run summary. Execution is strictly sequential within
// a batch: each assignment's workload side effect must be visible to the
// next segment's scoring.
package pipeline

import (
	"time"

	"github.com/fyrsmithlabs/taskd/internal/assignment"
	"github.com/fyrsmithlabs/taskd/internal/extraction"
)

// FinalTask is an assigned task plus its dependency edges. Dependencies
// hold positions of prior tasks in the same batch, never forward or self
// references.
type FinalTask struct {
	assignment.AssignedTask

	Dependencies []int `json:"dependencies,omitempty"`
}

// RunSummary aggregates one pipeline run.
type RunSummary struct {
	TotalTasks int            `json:"total_tasks"`
	ByPriority map[string]int `json:"by_priority"`
	ByAssignee map[string]int `json:"by_assignee"`
	Duration   time.Duration  `json:"duration"`
	Text       string         `json:"text"`
}

// Config bundles the stage configurations.
type Config struct {
	Extraction extraction.Config `json:"extraction" yaml:"extraction"`
	Assignment assignment.Config `json:"assignment" yaml:"assignment"`
}

// DefaultConfig returns defaults for every stage.
func DefaultConfig() Config {
	return Config{
		Extraction: extraction.DefaultConfig(),
		Assignment: assignment.DefaultConfig(),
	}
}
