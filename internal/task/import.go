package task

import (
	"context"

	"github.com/mrz1836/grove/internal/domain"
	"github.com/mrz1836/grove/internal/reconcile"
)

// ImportTaskYAML reconciles the persisted subtree rooted at taskID against
// the YAML text and applies the resulting operations: field updates on
// matched tasks, subtree creation for new entries, and cascading deletion
// for existing children the YAML no longer mentions. The diff itself is
// pure; this method is the apply phase.
func (s *CommandService) ImportTaskYAML(ctx context.Context, taskID string, yamlText []byte) error {
	target, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	children, err := s.childrenIndex(ctx, target)
	if err != nil {
		return err
	}

	diff, err := reconcile.Import(yamlText, target, children)
	if err != nil {
		return err
	}

	if err := s.applyDiff(ctx, diff); err != nil {
		return err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Int("updated", len(diff.Update)).
		Int("created", len(diff.Create)).
		Int("deleted", len(diff.Delete)).
		Msg("yaml import applied")
	return nil
}

// childrenIndex maps every task id in the subtree to its immediate
// children, built from one descendant scan.
func (s *CommandService) childrenIndex(ctx context.Context, root domain.Task) (map[string][]domain.Task, error) {
	descendants, err := s.repo.GetDescendants(ctx, root.ID)
	if err != nil {
		return nil, err
	}

	index := make(map[string][]domain.Task, len(descendants)+1)
	for _, desc := range descendants {
		parentID := desc.ParentID()
		index[parentID] = append(index[parentID], desc)
	}
	return index, nil
}

// applyDiff walks one diff node: update the task's own fields, delete
// unmatched children with their subtrees, recurse into matched children,
// and create new subtrees last.
func (s *CommandService) applyDiff(ctx context.Context, d *reconcile.Diff) error {
	if !d.Changes.IsEmpty() {
		if err := s.applyFieldChanges(ctx, d.TaskID, d.Changes); err != nil {
			return err
		}
	}

	for _, id := range d.Delete {
		if err := s.DeleteTask(ctx, id); err != nil {
			return err
		}
	}

	for _, child := range d.Update {
		if err := s.applyDiff(ctx, child); err != nil {
			return err
		}
	}

	for _, create := range d.Create {
		if err := s.createSubtree(ctx, d.TaskID, create); err != nil {
			return err
		}
	}
	return nil
}

func (s *CommandService) applyFieldChanges(ctx context.Context, taskID string, changes reconcile.FieldChanges) error {
	_, err := s.mutate(ctx, taskID, func(t domain.Task) (domain.Task, error) {
		now := s.clock.Now()
		if changes.Text != nil {
			var terr error
			t, terr = t.WithText(*changes.Text, now)
			if terr != nil {
				return domain.Task{}, terr
			}
		}
		if changes.State != nil {
			t = t.WithState(*changes.State, now)
		}
		if changes.DueDateChanged {
			t = t.WithDueDate(changes.DueDate, now)
		}
		return t, nil
	})
	return err
}

// createSubtree creates one imported node under parentID, then its nested
// children under the freshly assigned id.
func (s *CommandService) createSubtree(ctx context.Context, parentID string, n reconcile.CreateNode) error {
	created, err := s.CreateTask(ctx, CreateTaskInput{
		Text:     n.Text,
		ParentID: parentID,
		DueDate:  n.DueDate,
		State:    n.State,
	})
	if err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := s.createSubtree(ctx, created.ID, child); err != nil {
			return err
		}
	}
	return nil
}
