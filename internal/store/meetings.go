package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const meetingsPrefix = "meetings"

// MeetingRepository persists processed meetings as YAML documents.
type MeetingRepository struct {
	storage Storage
}

// NewMeetingRepository creates a meeting repository over the given backend.
func NewMeetingRepository(s Storage) *MeetingRepository {
	return &MeetingRepository{storage: s}
}

func meetingPath(id string) string {
	return fmt.Sprintf("%s/%s.yaml", meetingsPrefix, id)
}

// Create stores a new meeting. A missing ID is filled with a fresh UUID.
func (r *MeetingRepository) Create(ctx context.Context, m *Meeting) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	exists, err := r.storage.Exists(ctx, meetingPath(m.ID))
	if err != nil {
		return fmt.Errorf("failed to check meeting %s: %w", m.ID, err)
	}
	if exists {
		return fmt.Errorf("meeting %s: %w", m.ID, ErrAlreadyExists)
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal meeting %s: %w", m.ID, err)
	}
	if err := r.storage.Write(ctx, meetingPath(m.ID), data); err != nil {
		return fmt.Errorf("failed to write meeting %s: %w", m.ID, err)
	}
	return nil
}

// Get loads one meeting by ID.
func (r *MeetingRepository) Get(ctx context.Context, id string) (*Meeting, error) {
	data, err := r.storage.Read(ctx, meetingPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read meeting %s: %w", id, err)
	}
	var m Meeting
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meeting %s: %w", id, err)
	}
	return &m, nil
}

// List returns all meetings, newest first.
func (r *MeetingRepository) List(ctx context.Context) ([]*Meeting, error) {
	paths, err := r.storage.List(ctx, meetingsPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	sort.Strings(paths)

	var meetings []*Meeting
	for _, path := range paths {
		data, err := r.storage.Read(ctx, path)
		if err != nil {
			continue
		}
		var m Meeting
		if err := yaml.Unmarshal(data, &m); err != nil {
			continue
		}
		meetings = append(meetings, &m)
	}
	sort.Slice(meetings, func(i, j int) bool { return meetings[i].CreatedAt.After(meetings[j].CreatedAt) })
	return meetings, nil
}

// Delete removes a meeting.
func (r *MeetingRepository) Delete(ctx context.Context, id string) error {
	if err := r.storage.Delete(ctx, meetingPath(id)); err != nil {
		return fmt.Errorf("failed to delete meeting %s: %w", id, err)
	}
	return nil
}
