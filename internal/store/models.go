package store

import (
	"time"

	"github.com/fyrsmithlabs/taskd/internal/pipeline"
)

// Meeting is a processed transcript with its run summary.
type Meeting struct {
	ID         string    `yaml:"id" json:"id"`
	Title      string    `yaml:"title" json:"title"`
	Date       string    `yaml:"date" json:"date"`
	Transcript string    `yaml:"transcript" json:"transcript"`
	Segments   []string  `yaml:"segments" json:"segments"`
	Summary    string    `yaml:"summary" json:"summary"`
	TaskCount  int       `yaml:"task_count" json:"task_count"`
	CreatedAt  time.Time `yaml:"created_at" json:"created_at"`
}

// Task is a persisted extracted task tied to its source meeting.
type Task struct {
	ID        string    `yaml:"id" json:"id"`
	MeetingID string    `yaml:"meeting_id" json:"meeting_id"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`

	pipeline.FinalTask `yaml:",inline" json:"task"`
}
