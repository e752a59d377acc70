package reconcile

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/grove/internal/constants"
	groveerrors "github.com/mrz1836/grove/internal/errors"
)

// yamlTask is the raw parsed shape of an imported task node. Text is
// decoded as any so a missing key and a non-string value can be told apart
// and reported as validation failures rather than parse failures.
type yamlTask struct {
	ID       string     `yaml:"id"`
	Text     any        `yaml:"text"`
	State    string     `yaml:"state"`
	DueDate  string     `yaml:"dueDate"`
	Children []yamlTask `yaml:"children"`
}

// node is a validated import node.
type node struct {
	ID       string
	Text     string
	State    constants.TaskState
	DueDate  *time.Time
	Children []node
}

// parse decodes and validates YAML text into an import node tree.
// Malformed YAML fails ErrYAMLParse; well-formed YAML with an invalid
// shape (missing or non-string text, unknown state, bad due date) fails
// ErrYAMLValidation.
func parse(yamlText []byte) (node, error) {
	var raw yamlTask
	if err := yaml.Unmarshal(yamlText, &raw); err != nil {
		return node{}, groveerrors.Wrapf(groveerrors.ErrYAMLParse, "malformed yaml: %v", err)
	}
	return validate(raw)
}

func validate(raw yamlTask) (node, error) {
	out := node{ID: raw.ID}

	switch text := raw.Text.(type) {
	case nil:
		return node{}, groveerrors.Wrap(groveerrors.ErrYAMLValidation, "task is missing required field 'text'")
	case string:
		out.Text = text
	default:
		return node{}, groveerrors.Wrapf(groveerrors.ErrYAMLValidation, "field 'text' must be a string, got %T", raw.Text)
	}

	// Absent state means the default.
	out.State = constants.TaskStateNotStarted
	if raw.State != "" {
		state := constants.TaskState(raw.State)
		if !constants.IsValidTaskState(state) {
			return node{}, groveerrors.Wrapf(groveerrors.ErrYAMLValidation, "unknown state %q", raw.State)
		}
		out.State = state
	}

	if raw.DueDate != "" {
		due, err := time.ParseInLocation(constants.DueDateLayout, raw.DueDate, time.UTC)
		if err != nil {
			return node{}, groveerrors.Wrapf(groveerrors.ErrYAMLValidation,
				"due date %q is not a %s date", raw.DueDate, constants.DueDateLayout)
		}
		out.DueDate = &due
	}

	for _, rawChild := range raw.Children {
		child, err := validate(rawChild)
		if err != nil {
			return node{}, err
		}
		out.Children = append(out.Children, child)
	}
	return out, nil
}
