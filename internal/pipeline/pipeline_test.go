package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fyrsmithlabs/taskd/internal/advisory"
	"github.com/fyrsmithlabs/taskd/internal/assignment"
	"github.com/fyrsmithlabs/taskd/internal/extraction"
	"github.com/fyrsmithlabs/taskd/internal/roster"
)

// 2026-08-27 is a Thursday.
var meetingDate = time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

func standupTeam() []*roster.Person {
	return []*roster.Person{
		{ID: "m1", Name: "Alice", Skills: []string{"ui", "frontend"}},
		{ID: "m2", Name: "Bob", Skills: []string{"api", "backend"}},
		{ID: "m3", Name: "Carol", Skills: []string{"testing"}},
	}
}

func TestPipeline_Run_Standup(t *testing.T) {
	segments := []string{
		"Alice, redesign the dashboard UI, high priority, by Friday.",
		"Bob, build the login API, critical, by tomorrow.",
		"After the API is done, write tests.",
		"Update the docs, low priority, eventually.",
	}

	p := New(DefaultConfig(), nil, nil)
	result, err := p.Run(context.Background(), segments, meetingDate, standupTeam())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Tasks) != 4 {
		t.Fatalf("Run() produced %d tasks, want 4", len(result.Tasks))
	}

	dashboard := result.Tasks[0]
	if dashboard.AssigneeName != "Alice" {
		t.Errorf("task 0 assignee = %q, want Alice", dashboard.AssigneeName)
	}
	if dashboard.Decision.Rule != assignment.RuleExplicitMention {
		t.Errorf("task 0 rule = %q, want %q", dashboard.Decision.Rule, assignment.RuleExplicitMention)
	}
	if dashboard.Priority != extraction.PriorityHigh {
		t.Errorf("task 0 priority = %v, want High", dashboard.Priority)
	}
	if dashboard.Deadline != "2026-08-28" {
		t.Errorf("task 0 deadline = %q, want 2026-08-28", dashboard.Deadline)
	}

	login := result.Tasks[1]
	if login.AssigneeName != "Bob" {
		t.Errorf("task 1 assignee = %q, want Bob", login.AssigneeName)
	}
	if login.Priority != extraction.PriorityCritical {
		t.Errorf("task 1 priority = %v, want Critical", login.Priority)
	}
	if login.Deadline != "2026-08-28" {
		t.Errorf("task 1 deadline = %q, want 2026-08-28", login.Deadline)
	}

	tests := result.Tasks[2]
	if len(tests.Dependencies) != 1 || tests.Dependencies[0] != 1 {
		t.Errorf("task 2 dependencies = %v, want [1]", tests.Dependencies)
	}
	if tests.AssigneeName != "Bob" {
		t.Errorf("task 2 assignee = %q, want Bob", tests.AssigneeName)
	}
	if tests.Decision.Rule != assignment.RuleSkillScoring {
		t.Errorf("task 2 rule = %q, want %q", tests.Decision.Rule, assignment.RuleSkillScoring)
	}

	docs := result.Tasks[3]
	if docs.Priority != extraction.PriorityLow {
		t.Errorf("task 3 priority = %v, want Low", docs.Priority)
	}
	if docs.AssigneeName != "Carol" {
		t.Errorf("task 3 assignee = %q, want Carol", docs.AssigneeName)
	}

	// Workload accumulated on the snapshot, not the caller's roster.
	wants := map[string]float64{"Alice": 1, "Bob": 2, "Carol": 1}
	for _, p := range result.Roster {
		if p.Workload != wants[p.Name] {
			t.Errorf("%s workload = %v, want %v", p.Name, p.Workload, wants[p.Name])
		}
	}

	if result.Summary.TotalTasks != 4 {
		t.Errorf("summary total = %d, want 4", result.Summary.TotalTasks)
	}
	if result.Summary.ByPriority["Critical"] != 1 || result.Summary.ByPriority["Low"] != 1 {
		t.Errorf("summary priorities = %v", result.Summary.ByPriority)
	}
	if result.Summary.ByAssignee["Bob"] != 2 {
		t.Errorf("summary Bob count = %d, want 2", result.Summary.ByAssignee["Bob"])
	}
}

func TestPipeline_Run_CallerRosterUntouched(t *testing.T) {
	team := standupTeam()
	p := New(DefaultConfig(), nil, nil)
	if _, err := p.Run(context.Background(), []string{"Fix the flaky build today."}, meetingDate, team); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, member := range team {
		if member.Workload != 0 {
			t.Errorf("%s workload mutated to %v", member.Name, member.Workload)
		}
	}
}

func TestPipeline_Run_EmptyRoster(t *testing.T) {
	p := New(DefaultConfig(), nil, nil)
	_, err := p.Run(context.Background(), []string{"Fix the build today."}, meetingDate, nil)
	if !errors.Is(err, assignment.ErrEmptyRoster) {
		t.Fatalf("Run() error = %v, want ErrEmptyRoster", err)
	}
}

func TestPipeline_Run_NoCandidates(t *testing.T) {
	segments := []string{
		"Thanks everyone for joining.",
		"The weather has been great lately.",
		"",
	}
	p := New(DefaultConfig(), nil, nil)
	result, err := p.Run(context.Background(), segments, meetingDate, standupTeam())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Tasks) != 0 {
		t.Fatalf("Run() produced %d tasks, want 0", len(result.Tasks))
	}
	if !strings.Contains(result.Summary.Text, "No actionable tasks") {
		t.Errorf("summary text = %q", result.Summary.Text)
	}
}

type stubAdvisor struct {
	advice map[string]*advisory.SegmentAdvice
	err    error
}

func (s *stubAdvisor) Analyze(_ context.Context, segment, _ string) (*advisory.SegmentAdvice, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.advice[segment], nil
}

func (s *stubAdvisor) Available() bool { return true }

func TestPipeline_Run_AdvisoryWidensDetection(t *testing.T) {
	// No cue phrase, no imperative first word, no date cue. Only the
	// advisory summary promotes this segment to a candidate.
	segment := "Someone should probably look at the checkout flow."
	adv := &stubAdvisor{advice: map[string]*advisory.SegmentAdvice{
		segment: {
			Summary:      "Investigate the checkout flow regression",
			Persons:      []string{"Carol"},
			PriorityHint: "High",
		},
	}}

	p := New(DefaultConfig(), adv, nil)
	result, err := p.Run(context.Background(), []string{segment}, meetingDate, standupTeam())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Tasks) != 1 {
		t.Fatalf("Run() produced %d tasks, want 1", len(result.Tasks))
	}

	task := result.Tasks[0]
	if task.DetectedBy != extraction.DetectedByAdvisory {
		t.Errorf("detected_by = %q, want %q", task.DetectedBy, extraction.DetectedByAdvisory)
	}
	if task.Priority != extraction.PriorityHigh {
		t.Errorf("priority = %v, want High (advisory hint)", task.Priority)
	}
	if task.AssigneeName != "Carol" {
		t.Errorf("assignee = %q, want Carol (advisory person)", task.AssigneeName)
	}
}

func TestPipeline_Run_AdvisorFailureDegrades(t *testing.T) {
	adv := &stubAdvisor{err: errors.New("model unavailable")}
	p := New(DefaultConfig(), adv, nil)

	result, err := p.Run(context.Background(), []string{"Fix the login bug today."}, meetingDate, standupTeam())
	if err != nil {
		t.Fatalf("Run() error = %v, want heuristic fallback", err)
	}
	if len(result.Tasks) != 1 {
		t.Fatalf("Run() produced %d tasks, want 1", len(result.Tasks))
	}
	if result.Tasks[0].DetectedBy != extraction.DetectedByHeuristic {
		t.Errorf("detected_by = %q, want %q", result.Tasks[0].DetectedBy, extraction.DetectedByHeuristic)
	}
}
