package reconcile

import (
	"sort"
	"time"

	"github.com/mrz1836/grove/internal/constants"
	"github.com/mrz1836/grove/internal/domain"
)

// FieldChanges is the field-level difference between an imported node and
// an existing task. Reconciliation is last-write-wins at the field level:
// the YAML value always replaces the stored one, and an absent optional
// field means its default (NotStarted state, no due date).
type FieldChanges struct {
	// Text is the new task text, or nil if unchanged.
	Text *string

	// State is the new state, or nil if unchanged.
	State *constants.TaskState

	// DueDate is the new due date (nil clears it). Only meaningful when
	// DueDateChanged is true.
	DueDate *time.Time

	// DueDateChanged reports whether the due date differs.
	DueDateChanged bool
}

// IsEmpty reports whether no field changed.
func (c FieldChanges) IsEmpty() bool {
	return c.Text == nil && c.State == nil && !c.DueDateChanged
}

// CreateNode describes a new task (and its subtree) to create during the
// apply phase.
type CreateNode struct {
	// Text is the task text.
	Text string

	// State is the initial state.
	State constants.TaskState

	// DueDate is the optional due date.
	DueDate *time.Time

	// Children are nested tasks to create under the new task.
	Children []CreateNode
}

// Diff is the ordered operation set produced by reconciling an imported
// YAML subtree against the persisted one. Structural absence from the YAML
// is the deletion signal: an existing child claimed by no YAML entry lands
// in Delete.
type Diff struct {
	// TaskID is the existing task this diff applies to.
	TaskID string

	// Changes are the field updates for the task itself.
	Changes FieldChanges

	// Create lists new subtrees to create under TaskID, in YAML order.
	Create []CreateNode

	// Update lists recursive diffs for matched existing children, in
	// YAML order.
	Update []*Diff

	// Delete lists ids of existing children absent from the YAML. The
	// apply phase deletes each with its whole subtree.
	Delete []string
}

// Import parses and validates YAML text, then diffs it against the
// existing task and its persisted subtree. children maps each task id to
// that task's immediate children. The result is pure data; nothing is
// written.
func Import(yamlText []byte, existing domain.Task, children map[string][]domain.Task) (*Diff, error) {
	root, err := parse(yamlText)
	if err != nil {
		return nil, err
	}
	return diffNode(root, existing, children), nil
}

// diffNode computes the diff between one validated import node and its
// existing counterpart, recursing through the children.
func diffNode(n node, existing domain.Task, children map[string][]domain.Task) *Diff {
	d := &Diff{
		TaskID:  existing.ID,
		Changes: diffFields(n, existing),
	}

	existingKids := sortedByCreation(children[existing.ID])
	byID := make(map[string]domain.Task, len(existingKids))
	for _, kid := range existingKids {
		byID[kid.ID] = kid
	}

	// Two-phase matcher, processed in YAML order: an explicit id claims
	// its task directly; otherwise the first still-unclaimed existing
	// child with identical text is claimed. The claimed set forbids
	// double-matching.
	claimed := make(map[string]bool, len(existingKids))
	for _, child := range n.Children {
		matched, ok := matchChild(child, existingKids, byID, claimed)
		if !ok {
			d.Create = append(d.Create, buildCreateNode(child))
			continue
		}
		claimed[matched.ID] = true
		d.Update = append(d.Update, diffNode(child, matched, children))
	}

	for _, kid := range existingKids {
		if !claimed[kid.ID] {
			d.Delete = append(d.Delete, kid.ID)
		}
	}
	return d
}

// matchChild resolves an import node to an existing child: phase 1 is an
// exact id lookup, phase 2 a linear scan over remaining unclaimed
// candidates by text equality, first unclaimed match wins.
func matchChild(n node, candidates []domain.Task, byID map[string]domain.Task, claimed map[string]bool) (domain.Task, bool) {
	if n.ID != "" {
		if task, ok := byID[n.ID]; ok && !claimed[task.ID] {
			return task, true
		}
	}
	for _, task := range candidates {
		if !claimed[task.ID] && task.Text == n.Text {
			return task, true
		}
	}
	return domain.Task{}, false
}

func diffFields(n node, existing domain.Task) FieldChanges {
	var changes FieldChanges
	if n.Text != existing.Text {
		text := n.Text
		changes.Text = &text
	}
	if n.State != existing.State {
		state := n.State
		changes.State = &state
	}
	if !sameDueDate(n.DueDate, existing.DueDate) {
		changes.DueDate = n.DueDate
		changes.DueDateChanged = true
	}
	return changes
}

// sameDueDate compares due dates at the date-only granularity of the YAML
// surface.
func sameDueDate(a, b *time.Time) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.Format(constants.DueDateLayout) == b.Format(constants.DueDateLayout)
}

func buildCreateNode(n node) CreateNode {
	out := CreateNode{
		Text:    n.Text,
		State:   n.State,
		DueDate: n.DueDate,
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, buildCreateNode(child))
	}
	return out
}

func sortedByCreation(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
