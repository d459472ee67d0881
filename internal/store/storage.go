// Package store persists rosters, meetings, and extracted tasks as YAML
// documents over a pluggable key-value storage backend.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record or storage path does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when creating a record whose ID is taken.
var ErrAlreadyExists = errors.New("already exists")

// Storage is a flat key-value file store. Paths use forward slashes
// relative to the backend root.
type Storage interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, path string) (bool, error)
}
