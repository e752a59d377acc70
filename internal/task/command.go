// Package task provides the command (write) and query (read) services for
// the grove task tree.
//
// This file implements the command service, which enforces the structural
// invariants the flat document store cannot express itself: root
// bootstrapping, path propagation on move, cascading delete, and rejection
// of root mutation and circular moves.
//
// Import rules:
//   - CAN import: internal/clock, internal/constants, internal/domain,
//     internal/errors, internal/reconcile, internal/store, internal/tree
//   - MUST NOT import: internal/cli, internal/config
package task

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/grove/internal/clock"
	"github.com/mrz1836/grove/internal/constants"
	"github.com/mrz1836/grove/internal/domain"
	groveerrors "github.com/mrz1836/grove/internal/errors"
	"github.com/mrz1836/grove/internal/store"
	"github.com/mrz1836/grove/internal/tree"
)

// CommandService executes write operations against the task tree.
// All operations are fetch-mutate-save over immutable domain values;
// domain validation failures surface unmodified.
type CommandService struct {
	repo   store.Repository
	clock  clock.Clock
	logger zerolog.Logger
}

// NewCommandService creates a command service over the given repository.
func NewCommandService(repo store.Repository, clk clock.Clock, logger zerolog.Logger) *CommandService {
	return &CommandService{repo: repo, clock: clk, logger: logger}
}

// CreateTaskInput carries the parameters for CreateTask.
type CreateTaskInput struct {
	// Text is the task text (required).
	Text string

	// ParentID is the parent task id. Empty defaults to the root.
	ParentID string

	// DueDate is the optional due date.
	DueDate *time.Time

	// State is the optional initial state (defaults to NotStarted).
	State constants.TaskState
}

// EnsureRoot bootstraps the sentinel root task if it is absent. The
// operation is idempotent: concurrent callers may both create the root,
// and the second write is a harmless upsert of the same document.
func (s *CommandService) EnsureRoot(ctx context.Context) (domain.Task, error) {
	root, err := s.repo.GetByID(ctx, constants.RootTaskID)
	if err == nil {
		return root, nil
	}
	if !errors.Is(err, groveerrors.ErrTaskNotFound) {
		return domain.Task{}, err
	}

	root = domain.NewRoot(s.clock.Now())
	if err := s.repo.Save(ctx, root); err != nil {
		return domain.Task{}, err
	}
	s.logger.Debug().Msg("root task bootstrapped")
	return root, nil
}

// CreateTask creates a new task under the given parent (the root when no
// parent is named). The new task's path is derived from the parent's path.
// Fails ErrTaskNotFound if the parent is missing.
func (s *CommandService) CreateTask(ctx context.Context, in CreateTaskInput) (domain.Task, error) {
	if _, err := s.EnsureRoot(ctx); err != nil {
		return domain.Task{}, err
	}

	parentID := in.ParentID
	if parentID == "" {
		parentID = constants.RootTaskID
	}
	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		return domain.Task{}, groveerrors.Wrapf(err, "failed to create task under '%s'", parentID)
	}

	task, err := domain.New(domain.NewTaskInput{
		Text:       in.Text,
		ParentPath: parent.Path,
		DueDate:    in.DueDate,
		State:      in.State,
	}, s.clock.Now())
	if err != nil {
		return domain.Task{}, err
	}

	if err := s.repo.Save(ctx, task); err != nil {
		return domain.Task{}, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("parent_id", parentID).
		Int("depth", task.Depth()).
		Msg("task created")
	return task, nil
}

// UpdateTaskText replaces a task's text.
func (s *CommandService) UpdateTaskText(ctx context.Context, taskID, text string) (domain.Task, error) {
	return s.mutate(ctx, taskID, func(t domain.Task) (domain.Task, error) {
		return t.WithText(text, s.clock.Now())
	})
}

// TransitionTaskState moves a task to newState, recording the change in
// the task history. The reason is kept only for transitions into Blocked.
func (s *CommandService) TransitionTaskState(ctx context.Context, taskID string, newState constants.TaskState, reason string) (domain.Task, error) {
	return s.mutate(ctx, taskID, func(t domain.Task) (domain.Task, error) {
		return t.Transition(newState, reason, s.clock.Now())
	})
}

// ProgressTaskState cycles a task to the next state in the progression
// order: NotStarted, InProgress, Blocked, Done, then back to NotStarted.
func (s *CommandService) ProgressTaskState(ctx context.Context, taskID string) (domain.Task, error) {
	return s.mutate(ctx, taskID, func(t domain.Task) (domain.Task, error) {
		return t.ProgressToNext(s.clock.Now())
	})
}

// CompleteTask transitions a task to Done.
func (s *CommandService) CompleteTask(ctx context.Context, taskID string) (domain.Task, error) {
	return s.TransitionTaskState(ctx, taskID, constants.TaskStateDone, "")
}

// SetTaskDueDate sets or clears (due == nil) a task's due date.
func (s *CommandService) SetTaskDueDate(ctx context.Context, taskID string, due *time.Time) (domain.Task, error) {
	return s.mutate(ctx, taskID, func(t domain.Task) (domain.Task, error) {
		return t.WithDueDate(due, s.clock.Now()), nil
	})
}

// MoveTask reparents a task under newParentID, recomputing the task's path
// and every descendant's path by prefix substitution, and persists the
// whole set as one batch. Moving the root fails ErrCannotMoveRoot; moving
// a task into its own subtree fails ErrCircularReference.
func (s *CommandService) MoveTask(ctx context.Context, taskID, newParentID string) (domain.Task, error) {
	if taskID == constants.RootTaskID {
		return domain.Task{}, groveerrors.Wrap(groveerrors.ErrCannotMoveRoot, "failed to move task")
	}

	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	newParent, err := s.repo.GetByID(ctx, newParentID)
	if err != nil {
		return domain.Task{}, groveerrors.Wrapf(err, "failed to move task '%s'", taskID)
	}
	if newParent.Path.Contains(taskID) {
		return domain.Task{}, groveerrors.Wrapf(groveerrors.ErrCircularReference,
			"failed to move task '%s' into its own subtree", taskID)
	}

	descendants, err := s.repo.GetDescendants(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}

	now := s.clock.Now()
	oldPath := task.Path
	moved, err := task.WithPath(newParent.Path.Child(task.ID), now)
	if err != nil {
		return domain.Task{}, err
	}

	batch := make([]domain.Task, 0, len(descendants)+1)
	batch = append(batch, moved)
	for _, desc := range descendants {
		rewritten, err := tree.Rewrite(desc.Path, oldPath, moved.Path)
		if err != nil {
			return domain.Task{}, err
		}
		relocated, err := desc.WithPath(rewritten, now)
		if err != nil {
			return domain.Task{}, err
		}
		batch = append(batch, relocated)
	}

	if err := s.repo.SaveMany(ctx, batch); err != nil {
		return domain.Task{}, err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("new_parent_id", newParentID).
		Int("descendants", len(descendants)).
		Msg("task moved")
	return moved, nil
}

// DeleteTask removes a task and its entire subtree as one batch.
// Deleting the root fails ErrCannotDeleteRoot.
func (s *CommandService) DeleteTask(ctx context.Context, taskID string) error {
	if taskID == constants.RootTaskID {
		return groveerrors.Wrap(groveerrors.ErrCannotDeleteRoot, "failed to delete task")
	}

	descendants, err := s.repo.GetDescendants(ctx, taskID)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(descendants)+1)
	ids = append(ids, taskID)
	for _, desc := range descendants {
		ids = append(ids, desc.ID)
	}
	if err := s.repo.DeleteMany(ctx, ids); err != nil {
		return err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Int("descendants", len(descendants)).
		Msg("task deleted")
	return nil
}

// ClearSubtasks deletes only a task's immediate children, not deeper
// descendants. The asymmetry with DeleteTask is intentional.
func (s *CommandService) ClearSubtasks(ctx context.Context, taskID string) error {
	if _, err := s.repo.GetByID(ctx, taskID); err != nil {
		return err
	}
	children, err := s.repo.GetImmediateChildren(ctx, taskID)
	if err != nil {
		return err
	}
	if len(children) == 0 {
		return nil
	}

	ids := make([]string, 0, len(children))
	for _, child := range children {
		ids = append(ids, child.ID)
	}
	if err := s.repo.DeleteMany(ctx, ids); err != nil {
		return err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Int("children", len(ids)).
		Msg("subtasks cleared")
	return nil
}

// mutate runs the fetch-mutate-save cycle for a single task.
func (s *CommandService) mutate(ctx context.Context, taskID string, transform func(domain.Task) (domain.Task, error)) (domain.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	updated, err := transform(task)
	if err != nil {
		return domain.Task{}, err
	}
	if err := s.repo.Save(ctx, updated); err != nil {
		return domain.Task{}, err
	}
	return updated, nil
}
