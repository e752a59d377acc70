// Package reconcile provides the YAML edit surface for task subtrees:
// exporting a subtree to text, parsing edited text back, and diffing it
// against the persisted children into a minimal ordered set of create,
// update and delete operations.
//
// Everything in this package is pure: no store access, no clocks, no
// logging. The command service drives the apply phase.
package reconcile

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/grove/internal/constants"
	"github.com/mrz1836/grove/internal/domain"
	groveerrors "github.com/mrz1836/grove/internal/errors"
)

// exportNode is the YAML shape of a single exported task. The format is a
// user edit surface, not a full dump: internal ids and history are never
// emitted, the default NotStarted state is omitted, and so is an absent
// due date.
type exportNode struct {
	Text     string       `yaml:"text"`
	State    string       `yaml:"state,omitempty"`
	DueDate  string       `yaml:"dueDate,omitempty"`
	Children []exportNode `yaml:"children,omitempty"`
}

// Export serializes a task and its subtree to YAML. children maps each
// task id to that task's immediate children; entries at every level are
// emitted ordered by creation time.
func Export(task domain.Task, children map[string][]domain.Task) (string, error) {
	node := buildExportNode(task, children)
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", groveerrors.Wrap(err, "failed to encode task yaml")
	}
	if err := enc.Close(); err != nil {
		return "", groveerrors.Wrap(err, "failed to encode task yaml")
	}
	return sb.String(), nil
}

func buildExportNode(task domain.Task, children map[string][]domain.Task) exportNode {
	node := exportNode{Text: task.Text}
	if task.State != constants.TaskStateNotStarted {
		node.State = string(task.State)
	}
	if task.DueDate != nil {
		node.DueDate = task.DueDate.Format(constants.DueDateLayout)
	}

	kids := make([]domain.Task, len(children[task.ID]))
	copy(kids, children[task.ID])
	sort.SliceStable(kids, func(i, j int) bool {
		return kids[i].CreatedAt.Before(kids[j].CreatedAt)
	})
	for _, child := range kids {
		node.Children = append(node.Children, buildExportNode(child, children))
	}
	return node
}
