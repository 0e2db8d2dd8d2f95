package core

import (
	"context"
	"strconv"
)

// Entry describes one stored matrix file.
type Entry struct {
	Index int
	Name  string
}

// Repository defines the contract for storing and retrieving matrices under
// one naming scheme. Each index maps to exactly one file, so concurrent
// callers writing distinct indices never touch the same file.
type Repository interface {
	// Initialize ensures the underlying storage is ready (e.g. creates the directory).
	Initialize(ctx context.Context) error

	// Save persists m under index, replacing any previous content.
	Save(ctx context.Context, index int, m *Matrix) error

	// Get retrieves the matrix stored under index.
	Get(ctx context.Context, index int) (*Matrix, error)

	// List returns the stored entries sorted by index.
	List(ctx context.Context) ([]Entry, error)

	// ReadAll decodes every stored matrix, ordered by index.
	ReadAll(ctx context.Context) ([]*Matrix, error)

	// Delete removes the matrix stored under index.
	Delete(ctx context.Context, index int) error

	// Teardown removes the storage and everything in it.
	Teardown(ctx context.Context) error
}

// Watchable is implemented by repositories that can report changes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// EventType represents the type of change in a repository.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a stored matrix.
type Event struct {
	Type      EventType
	Index     int
	Name      string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + e.Name + " (#" + strconv.Itoa(e.Index) + ")"
}
