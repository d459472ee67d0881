package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const tasksPrefix = "tasks"

// TaskRepository persists extracted tasks as YAML documents.
type TaskRepository struct {
	storage Storage
}

// NewTaskRepository creates a task repository over the given backend.
func NewTaskRepository(s Storage) *TaskRepository {
	return &TaskRepository{storage: s}
}

func taskPath(id string) string {
	return fmt.Sprintf("%s/%s.yaml", tasksPrefix, id)
}

// Create stores a new task. A missing ID is filled with a fresh UUID.
func (r *TaskRepository) Create(ctx context.Context, t *Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	exists, err := r.storage.Exists(ctx, taskPath(t.ID))
	if err != nil {
		return fmt.Errorf("failed to check task %s: %w", t.ID, err)
	}
	if exists {
		return fmt.Errorf("task %s: %w", t.ID, ErrAlreadyExists)
	}
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal task %s: %w", t.ID, err)
	}
	if err := r.storage.Write(ctx, taskPath(t.ID), data); err != nil {
		return fmt.Errorf("failed to write task %s: %w", t.ID, err)
	}
	return nil
}

// Get loads one task by ID.
func (r *TaskRepository) Get(ctx context.Context, id string) (*Task, error) {
	data, err := r.storage.Read(ctx, taskPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read task %s: %w", id, err)
	}
	var t Task
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task %s: %w", id, err)
	}
	return &t, nil
}

// ListByMeeting returns the tasks of one meeting in batch order. An
// empty meetingID returns every task.
func (r *TaskRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*Task, error) {
	paths, err := r.storage.List(ctx, tasksPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	sort.Strings(paths)

	var tasks []*Task
	for _, path := range paths {
		data, err := r.storage.Read(ctx, path)
		if err != nil {
			continue
		}
		var t Task
		if err := yaml.Unmarshal(data, &t); err != nil {
			continue
		}
		if meetingID != "" && t.MeetingID != meetingID {
			continue
		}
		tasks = append(tasks, &t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].MeetingID != tasks[j].MeetingID {
			return tasks[i].MeetingID < tasks[j].MeetingID
		}
		return tasks[i].SegmentIndex < tasks[j].SegmentIndex
	})
	return tasks, nil
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.storage.Delete(ctx, taskPath(id)); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}
