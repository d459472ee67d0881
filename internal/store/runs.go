package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskd/internal/pipeline"
)

// RunWriter persists a complete pipeline run: the meeting record, its
// tasks, and the updated member workloads.
type RunWriter struct {
	meetings *MeetingRepository
	tasks    *TaskRepository
	members  *MemberRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewRunWriter creates a run writer over the three repositories.
func NewRunWriter(meetings *MeetingRepository, tasks *TaskRepository, members *MemberRepository, logger *zap.Logger) *RunWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunWriter{
		meetings: meetings,
		tasks:    tasks,
		members:  members,
		logger:   logger,
		now:      time.Now,
	}
}

// Save writes the meeting, its tasks, and the workload deltas from the
// run's roster snapshot. On a partial failure every record written so
// far is removed, so a meeting never appears without its tasks.
// Workload updates come last and are not rolled back; by then the run
// is fully recorded.
func (w *RunWriter) Save(ctx context.Context, meeting *Meeting, result *pipeline.Result) (*Meeting, []*Task, error) {
	meeting.TaskCount = len(result.Tasks)
	meeting.Summary = result.Summary.Text
	if meeting.CreatedAt.IsZero() {
		meeting.CreatedAt = w.now()
	}

	if err := w.meetings.Create(ctx, meeting); err != nil {
		return nil, nil, fmt.Errorf("failed to save meeting: %w", err)
	}

	var written []*Task
	for _, ft := range result.Tasks {
		task := &Task{
			MeetingID: meeting.ID,
			CreatedAt: meeting.CreatedAt,
			FinalTask: ft,
		}
		if err := w.tasks.Create(ctx, task); err != nil {
			w.rollback(ctx, meeting, written)
			return nil, nil, fmt.Errorf("failed to save task: %w", err)
		}
		written = append(written, task)
	}

	for _, member := range result.Roster {
		if err := w.members.Update(ctx, member); err != nil {
			// A member may have been removed mid-run; the run record
			// stays valid without the workload bump.
			w.logger.Warn("workload update skipped",
				zap.String("member", member.ID),
				zap.Error(err),
			)
		}
	}

	return meeting, written, nil
}

// rollback removes the artifacts of a failed save.
func (w *RunWriter) rollback(ctx context.Context, meeting *Meeting, tasks []*Task) {
	for _, t := range tasks {
		if err := w.tasks.Delete(ctx, t.ID); err != nil {
			w.logger.Warn("rollback failed for task", zap.String("task", t.ID), zap.Error(err))
		}
	}
	if err := w.meetings.Delete(ctx, meeting.ID); err != nil {
		w.logger.Warn("rollback failed for meeting", zap.String("meeting", meeting.ID), zap.Error(err))
	}
}
