// Package store provides task persistence for grove.
//
// The Repository interface is the abstraction boundary between the domain
// services and the underlying document store. The SQLite adapter in this
// package binds it to an embedded document table with derived secondary
// indexes (document type, exact parent id, materialized path range) and a
// live change feed.
package store

import (
	"context"

	"github.com/mrz1836/grove/internal/domain"
)

// ChangeType classifies a change-feed event.
type ChangeType string

// Change feed event types.
const (
	// ChangePut indicates a document was created or updated.
	ChangePut ChangeType = "put"

	// ChangeDelete indicates a document was removed.
	ChangeDelete ChangeType = "delete"
)

// Change is a single live change-feed event.
type Change struct {
	// Type is the kind of change.
	Type ChangeType `json:"type"`

	// ID is the id of the affected task.
	ID string `json:"id"`

	// Task is the task after the change. It is the zero Task for deletes.
	Task domain.Task `json:"task"`

	// Seq is a store-local, strictly increasing sequence number.
	Seq uint64 `json:"seq"`
}

// Repository defines the persistence operations for tasks.
//
// All failures from the underlying store surface as *errors.StoreError with
// the failing operation name attached; a missing task surfaces as
// errors.ErrTaskNotFound. No operation retries internally.
type Repository interface {
	// GetByID retrieves a task by id.
	// Returns ErrTaskNotFound if the task doesn't exist.
	GetByID(ctx context.Context, id string) (domain.Task, error)

	// GetAll returns every non-root task, via the document type index.
	GetAll(ctx context.Context) ([]domain.Task, error)

	// GetImmediateChildren returns the tasks whose parent (second-to-last
	// path element) is parentID, via the parent index.
	GetImmediateChildren(ctx context.Context, parentID string) ([]domain.Task, error)

	// GetDescendants returns every proper descendant of the task with the
	// given id (the ancestor itself is excluded), via a range scan over
	// the materialized path index. Returns ErrTaskNotFound if the
	// ancestor itself does not exist.
	GetDescendants(ctx context.Context, ancestorID string) ([]domain.Task, error)

	// Save upserts a task. The task document is merged onto any existing
	// stored document with the same id so unknown fields written by other
	// software survive.
	Save(ctx context.Context, task domain.Task) error

	// SaveMany upserts a batch of tasks in a single request. The store is
	// not assumed to apply the batch atomically: on failure some
	// documents may have been written and others not, and the caller
	// must re-fetch rather than trust in-memory state.
	SaveMany(ctx context.Context, tasks []domain.Task) error

	// Delete removes a task document.
	// Returns ErrTaskNotFound if the task doesn't exist.
	Delete(ctx context.Context, id string) error

	// DeleteMany removes a batch of task documents in a single request.
	// Missing ids are skipped.
	DeleteMany(ctx context.Context, ids []string) error

	// Watch subscribes to live changes for a single task id, starting
	// now. The caller MUST call Cancel on the returned subscription to
	// release the feed connection.
	Watch(ctx context.Context, id string) (*Subscription, error)

	// WatchAll subscribes to live changes for every task document,
	// starting now. The caller MUST call Cancel on the returned
	// subscription to release the feed connection.
	WatchAll(ctx context.Context) (*Subscription, error)

	// Close releases the underlying store connection and cancels every
	// open subscription.
	Close() error
}
