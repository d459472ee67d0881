package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/fyrsmithlabs/taskd/internal/roster"
)

const membersPrefix = "members"

// MemberRepository persists roster members as YAML documents.
type MemberRepository struct {
	storage Storage
}

// NewMemberRepository creates a member repository over the given backend.
func NewMemberRepository(s Storage) *MemberRepository {
	return &MemberRepository{storage: s}
}

func memberPath(id string) string {
	return fmt.Sprintf("%s/%s.yaml", membersPrefix, id)
}

// Create stores a new member. A missing ID is filled with a fresh UUID.
func (r *MemberRepository) Create(ctx context.Context, p *roster.Person) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	exists, err := r.storage.Exists(ctx, memberPath(p.ID))
	if err != nil {
		return fmt.Errorf("failed to check member %s: %w", p.ID, err)
	}
	if exists {
		return fmt.Errorf("member %s: %w", p.ID, ErrAlreadyExists)
	}
	return r.write(ctx, p)
}

// Get loads one member by ID.
func (r *MemberRepository) Get(ctx context.Context, id string) (*roster.Person, error) {
	data, err := r.storage.Read(ctx, memberPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read member %s: %w", id, err)
	}
	var p roster.Person
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal member %s: %w", id, err)
	}
	return &p, nil
}

// List returns all members ordered by name.
func (r *MemberRepository) List(ctx context.Context) ([]*roster.Person, error) {
	paths, err := r.storage.List(ctx, membersPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	sort.Strings(paths)

	var members []*roster.Person
	for _, path := range paths {
		data, err := r.storage.Read(ctx, path)
		if err != nil {
			continue
		}
		var p roster.Person
		if err := yaml.Unmarshal(data, &p); err != nil {
			continue
		}
		members = append(members, &p)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}

// Update overwrites an existing member.
func (r *MemberRepository) Update(ctx context.Context, p *roster.Person) error {
	exists, err := r.storage.Exists(ctx, memberPath(p.ID))
	if err != nil {
		return fmt.Errorf("failed to check member %s: %w", p.ID, err)
	}
	if !exists {
		return fmt.Errorf("member %s: %w", p.ID, ErrNotFound)
	}
	return r.write(ctx, p)
}

// Delete removes a member.
func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	if err := r.storage.Delete(ctx, memberPath(id)); err != nil {
		return fmt.Errorf("failed to delete member %s: %w", id, err)
	}
	return nil
}

func (r *MemberRepository) write(ctx context.Context, p *roster.Person) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal member %s: %w", p.ID, err)
	}
	if err := r.storage.Write(ctx, memberPath(p.ID), data); err != nil {
		return fmt.Errorf("failed to write member %s: %w", p.ID, err)
	}
	return nil
}
