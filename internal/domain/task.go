// Package domain provides the task aggregate and its value objects for grove.
// Tasks are immutable: every mutation is a pure transform that returns a new
// Task instance, leaving the receiver untouched.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library, uuid
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case per architecture requirements.
package domain

import (
	"slices"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mrz1836/grove/internal/constants"
	groveerrors "github.com/mrz1836/grove/internal/errors"
)

// Task represents a single node in the task tree.
//
// A task's position in the tree is fully described by its materialized Path;
// no parent or child pointers exist anywhere. State changes are recorded in
// the append-only History log, whose first entry is the state at creation.
//
// Example JSON representation:
//
//	{
//	    "id": "550e8400-e29b-41d4-a716-446655440000",
//	    "text": "Write the release notes",
//	    "state": "InProgress",
//	    "path": ["00000000-0000-0000-0000-000000000000", "550e8400-e29b-41d4-a716-446655440000"],
//	    "history": [{"timestamp": "2026-01-02T10:00:00Z", "new_state": "NotStarted"}],
//	    "due_date": "2026-01-10T00:00:00Z",
//	    "created_at": "2026-01-02T10:00:00Z",
//	    "updated_at": "2026-01-02T11:30:00Z",
//	    "schema_version": 1
//	}
type Task struct {
	// ID is the unique UUID-shaped identifier for the task.
	ID string `json:"id"`

	// Text is the human-readable task text (non-empty, at most 500 chars).
	Text string `json:"text"`

	// State is the current state in the task state machine.
	State constants.TaskState `json:"state"`

	// BlockedReason optionally explains why a Blocked task is blocked.
	// It is cleared on every transition out of Blocked.
	BlockedReason string `json:"blocked_reason,omitempty"`

	// Path is the ordered id sequence from the root to this task inclusive.
	// Invariant: Path[len(Path)-1] == ID.
	Path Path `json:"path"`

	// History is the append-only state transition log, ascending by
	// timestamp. The first entry is the state at creation.
	History []StateTransition `json:"history"`

	// DueDate is the optional due date (nil if none).
	DueDate *time.Time `json:"due_date,omitempty"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task was last transformed.
	// Invariant: CreatedAt <= UpdatedAt.
	UpdatedAt time.Time `json:"updated_at"`

	// SchemaVersion indicates the version of the task document schema.
	SchemaVersion int `json:"schema_version"`
}

// StateTransition records a single state change in a task's history.
type StateTransition struct {
	// Timestamp is when the transition occurred.
	Timestamp time.Time `json:"timestamp"`

	// NewState is the state the task entered.
	NewState constants.TaskState `json:"new_state"`

	// Reason optionally explains a transition into Blocked.
	Reason string `json:"reason,omitempty"`
}

// NewTaskInput carries the parameters for creating a task.
type NewTaskInput struct {
	// Text is the task text (required).
	Text string

	// ParentPath is the materialized path of the parent task (required;
	// use the root task's path for top-level tasks).
	ParentPath Path

	// DueDate is the optional due date.
	DueDate *time.Time

	// State is the initial state. The zero value defaults to NotStarted.
	State constants.TaskState

	// BlockedReason optionally explains an initial Blocked state.
	BlockedReason string
}

// New creates a task under the given parent path with a freshly generated
// id. The path is derived as parentPath + [id] and the history is seeded
// with the initial state. It fails with ErrInvalidTaskText if the text is
// empty or too long.
func New(in NewTaskInput, now time.Time) (Task, error) {
	if err := ValidateText(in.Text); err != nil {
		return Task{}, err
	}
	state := in.State
	if state == "" {
		state = constants.TaskStateNotStarted
	}
	if !constants.IsValidTaskState(state) {
		return Task{}, groveerrors.Wrapf(groveerrors.ErrInvalidStateTransition, "unknown initial state %q", state)
	}

	id := uuid.NewString()
	now = now.UTC()

	t := Task{
		ID:        id,
		Text:      in.Text,
		State:     state,
		Path:      in.ParentPath.Child(id),
		CreatedAt: now,
		UpdatedAt: now,
		History: []StateTransition{
			{Timestamp: now, NewState: state},
		},
		SchemaVersion: constants.TaskSchemaVersion,
	}
	if state == constants.TaskStateBlocked && in.BlockedReason != "" {
		t.BlockedReason = in.BlockedReason
		t.History[0].Reason = in.BlockedReason
	}
	if in.DueDate != nil {
		d := in.DueDate.UTC()
		t.DueDate = &d
	}
	if err := t.Path.Validate(t.ID); err != nil {
		return Task{}, err
	}
	return t, nil
}

// NewRoot creates the sentinel root task. The root has the well-known fixed
// id, a single-element path, and is the implicit parent of every top-level
// task. It is never exported, moved, or deleted.
func NewRoot(now time.Time) Task {
	now = now.UTC()
	return Task{
		ID:        constants.RootTaskID,
		Text:      constants.RootTaskText,
		State:     constants.TaskStateNotStarted,
		Path:      Path{constants.RootTaskID},
		CreatedAt: now,
		UpdatedAt: now,
		History: []StateTransition{
			{Timestamp: now, NewState: constants.TaskStateNotStarted},
		},
		SchemaVersion: constants.TaskSchemaVersion,
	}
}

// ValidateText checks that task text is non-empty and within the maximum
// length. Length is measured in runes so multi-byte text is not penalized.
func ValidateText(text string) error {
	if text == "" {
		return groveerrors.Wrap(groveerrors.ErrInvalidTaskText, "task text is empty")
	}
	if utf8.RuneCountInString(text) > constants.MaxTaskTextLength {
		return groveerrors.Wrapf(groveerrors.ErrInvalidTaskText,
			"task text exceeds %d characters", constants.MaxTaskTextLength)
	}
	return nil
}

// ValidateID checks that id is a UUID-shaped identifier.
func ValidateID(id string) error {
	if id == "" {
		return groveerrors.Wrap(groveerrors.ErrInvalidTaskID, "id is empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return groveerrors.Wrapf(groveerrors.ErrInvalidTaskID, "id %q is not a UUID", id)
	}
	return nil
}

// IsRoot reports whether the task is the sentinel root.
func (t Task) IsRoot() bool {
	return t.ID == constants.RootTaskID
}

// IsDone reports whether the task is in the Done state.
func (t Task) IsDone() bool {
	return t.State == constants.TaskStateDone
}

// IsOverdue reports whether the task has a due date strictly before now
// and is not Done.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.IsDone()
}

// ParentID returns the id of the task's parent, or "" for the root.
func (t Task) ParentID() string {
	return t.Path.ParentID()
}

// Depth returns the task's depth in the tree (0 for the root).
func (t Task) Depth() int {
	return t.Path.Depth()
}

// CanTransitionTo reports whether the task may transition to newState.
func (t Task) CanTransitionTo(newState constants.TaskState) bool {
	return CanTransition(t.State, newState)
}

// clone returns a deep copy of the task so transforms never share slice
// backing arrays with their source.
func (t Task) clone() Task {
	out := t
	out.Path = t.Path.Clone()
	out.History = slices.Clone(t.History)
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	return out
}

// WithText returns a copy of the task with new text. It fails with
// ErrInvalidTaskText if the text is invalid.
func (t Task) WithText(text string, now time.Time) (Task, error) {
	if err := ValidateText(text); err != nil {
		return Task{}, err
	}
	out := t.clone()
	out.Text = text
	out.UpdatedAt = now.UTC()
	return out, nil
}

// Transition returns a copy of the task moved to newState, with the change
// appended to the history. The reason is recorded only for transitions into
// Blocked; leaving Blocked always clears BlockedReason. It fails with
// ErrInvalidStateTransition if the state machine rejects the change.
func (t Task) Transition(newState constants.TaskState, reason string, now time.Time) (Task, error) {
	if !CanTransition(t.State, newState) {
		return Task{}, groveerrors.Wrapf(groveerrors.ErrInvalidStateTransition,
			"cannot transition from %s to %s", t.State, newState)
	}

	out := t.clone()
	out.State = newState
	out.BlockedReason = ""
	out.UpdatedAt = now.UTC()

	entry := StateTransition{Timestamp: out.UpdatedAt, NewState: newState}
	if newState == constants.TaskStateBlocked {
		out.BlockedReason = reason
		entry.Reason = reason
	}
	out.History = append(out.History, entry)
	return out, nil
}

// WithState returns a copy of the task with the state replaced
// unconditionally, recording the change in the history. Reconciliation uses
// this instead of Transition because an imported value wins over the stored
// one regardless of the transition rules.
func (t Task) WithState(newState constants.TaskState, now time.Time) Task {
	if t.State == newState {
		return t.clone()
	}

	out := t.clone()
	out.State = newState
	out.BlockedReason = ""
	out.UpdatedAt = now.UTC()
	out.History = append(out.History, StateTransition{Timestamp: out.UpdatedAt, NewState: newState})
	return out
}

// ProgressToNext cycles the task to the next state in the progression
// order: NotStarted → InProgress → Blocked → Done → NotStarted.
func (t Task) ProgressToNext(now time.Time) (Task, error) {
	return t.Transition(NextState(t.State), "", now)
}

// WithDueDate returns a copy of the task with the due date set (or cleared
// when due is nil).
func (t Task) WithDueDate(due *time.Time, now time.Time) Task {
	out := t.clone()
	if due == nil {
		out.DueDate = nil
	} else {
		d := due.UTC()
		out.DueDate = &d
	}
	out.UpdatedAt = now.UTC()
	return out
}

// WithPath returns a copy of the task relocated to a new materialized path.
// The new path must still terminate at the task's own id.
func (t Task) WithPath(p Path, now time.Time) (Task, error) {
	if err := p.Validate(t.ID); err != nil {
		return Task{}, err
	}
	out := t.clone()
	out.Path = p.Clone()
	out.UpdatedAt = now.UTC()
	return out, nil
}
