package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/taskd/internal/extraction"
	"github.com/fyrsmithlabs/taskd/internal/pipeline"
	"github.com/fyrsmithlabs/taskd/internal/roster"
)

func newTestBackend(t *testing.T) Storage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestMemberRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemberRepository(newTestBackend(t))

	alice := &roster.Person{Name: "Alice", Skills: []string{"ui"}}
	require.NoError(t, repo.Create(ctx, alice))
	require.NotEmpty(t, alice.ID, "Create should assign a UUID")

	got, err := repo.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, []string{"ui"}, got.Skills)

	err = repo.Create(ctx, &roster.Person{ID: alice.ID, Name: "Imposter"})
	assert.True(t, errors.Is(err, ErrAlreadyExists))

	alice.Workload = 3
	require.NoError(t, repo.Update(ctx, alice))
	got, err = repo.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Workload)

	require.NoError(t, repo.Create(ctx, &roster.Person{Name: "Bob"}))
	members, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Alice", members[0].Name)
	assert.Equal(t, "Bob", members[1].Name)

	require.NoError(t, repo.Delete(ctx, alice.ID))
	_, err = repo.Get(ctx, alice.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemberRepository_UpdateMissing(t *testing.T) {
	repo := NewMemberRepository(newTestBackend(t))
	err := repo.Update(context.Background(), &roster.Person{ID: "ghost", Name: "Ghost"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMeetingRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMeetingRepository(newTestBackend(t))

	m := &Meeting{Title: "Standup", Date: "2026-08-27", Segments: []string{"Fix the build."}}
	require.NoError(t, repo.Create(ctx, m))
	require.NotEmpty(t, m.ID)

	got, err := repo.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Standup", got.Title)
	assert.Equal(t, []string{"Fix the build."}, got.Segments)

	meetings, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, meetings, 1)

	require.NoError(t, repo.Delete(ctx, m.ID))
	_, err = repo.Get(ctx, m.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTaskRepository_ListByMeeting(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(newTestBackend(t))

	mk := func(meetingID string, segment int, priority extraction.Priority) *Task {
		task := &Task{MeetingID: meetingID}
		task.SegmentIndex = segment
		task.Description = "Fix the build."
		task.Priority = priority
		require.NoError(t, repo.Create(ctx, task))
		return task
	}

	mk("m2", 0, extraction.PriorityLow)
	mk("m1", 1, extraction.PriorityHigh)
	mk("m1", 0, extraction.PriorityCritical)

	tasks, err := repo.ListByMeeting(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 0, tasks[0].SegmentIndex)
	assert.Equal(t, extraction.PriorityCritical, tasks[0].Priority)
	assert.Equal(t, 1, tasks[1].SegmentIndex)

	all, err := repo.ListByMeeting(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTaskRepository_RoundTripPreservesAssignment(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(newTestBackend(t))

	task := &Task{MeetingID: "m1"}
	task.Description = "Build the login API."
	task.Priority = extraction.PriorityCritical
	task.Deadline = "2026-08-28"
	task.AssigneeID = "m2"
	task.AssigneeName = "Bob"
	task.Dependencies = []int{0}
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.AssigneeName)
	assert.Equal(t, extraction.PriorityCritical, got.Priority)
	assert.Equal(t, "2026-08-28", got.Deadline)
	assert.Equal(t, []int{0}, got.Dependencies)
}

// failingStorage wraps a backend and fails every Write after the first n.
type failingStorage struct {
	Storage
	writesLeft int
}

func (f *failingStorage) Write(ctx context.Context, path string, data []byte) error {
	if f.writesLeft <= 0 {
		return errors.New("disk full")
	}
	f.writesLeft--
	return f.Storage.Write(ctx, path, data)
}

func runResult(tasks int) *pipeline.Result {
	result := &pipeline.Result{Summary: pipeline.RunSummary{TotalTasks: tasks}}
	for i := 0; i < tasks; i++ {
		var ft pipeline.FinalTask
		ft.SegmentIndex = i
		ft.Description = "Fix the build."
		ft.Priority = extraction.PriorityMedium
		result.Tasks = append(result.Tasks, ft)
	}
	return result
}

func TestRunWriter_Save(t *testing.T) {
	ctx := context.Background()
	backend := newTestBackend(t)
	meetings := NewMeetingRepository(backend)
	tasks := NewTaskRepository(backend)
	members := NewMemberRepository(backend)

	alice := &roster.Person{Name: "Alice"}
	require.NoError(t, members.Create(ctx, alice))

	result := runResult(2)
	result.Roster = []*roster.Person{{ID: alice.ID, Name: "Alice", Workload: 2}}

	w := NewRunWriter(meetings, tasks, members, nil)
	meeting, written, err := w.Save(ctx, &Meeting{Title: "Standup", Date: "2026-08-27"}, result)
	require.NoError(t, err)
	require.Len(t, written, 2)
	assert.Equal(t, 2, meeting.TaskCount)

	stored, err := tasks.ListByMeeting(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	got, err := members.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Workload, "workload delta written back")
}

func TestRunWriter_RollbackOnFailure(t *testing.T) {
	ctx := context.Background()
	backend := newTestBackend(t)
	// Allow the meeting and first task, fail the second task.
	flaky := &failingStorage{Storage: backend, writesLeft: 2}
	meetings := NewMeetingRepository(flaky)
	tasks := NewTaskRepository(flaky)
	members := NewMemberRepository(flaky)

	w := NewRunWriter(meetings, tasks, members, nil)
	_, _, err := w.Save(ctx, &Meeting{Title: "Standup"}, runResult(2))
	require.Error(t, err)

	leftovers, err := NewTaskRepository(backend).ListByMeeting(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, leftovers, "partial tasks removed")

	remaining, err := NewMeetingRepository(backend).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining, "meeting removed")
}
