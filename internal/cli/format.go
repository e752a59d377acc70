package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mrz1836/grove/internal/constants"
	"github.com/mrz1836/grove/internal/domain"
	"github.com/mrz1836/grove/internal/errors"
	"github.com/mrz1836/grove/internal/task"
)

// stateGlyph maps a task state to its two-character list marker.
func stateGlyph(state constants.TaskState) string {
	switch state {
	case constants.TaskStateInProgress:
		return "[~]"
	case constants.TaskStateBlocked:
		return "[!]"
	case constants.TaskStateDone:
		return "[x]"
	default:
		return "[ ]"
	}
}

// formatTaskLine renders one task as a single list line.
func formatTaskLine(t domain.Task) string {
	var sb strings.Builder
	sb.WriteString(stateGlyph(t.State))
	sb.WriteString(" ")
	sb.WriteString(t.Text)
	if t.DueDate != nil {
		fmt.Fprintf(&sb, " (due %s)", t.DueDate.Format(constants.DueDateLayout))
	}
	if t.State == constants.TaskStateBlocked && t.BlockedReason != "" {
		fmt.Fprintf(&sb, " [blocked: %s]", t.BlockedReason)
	}
	fmt.Fprintf(&sb, "  %s", t.ID)
	return sb.String()
}

// printTaskList writes one line per task.
func printTaskList(w io.Writer, tasks []domain.Task) {
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// printTree writes an indented rendering of a task subtree.
func printTree(w io.Writer, node *task.TreeNode, depth int) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), formatTaskLine(node.Task))
	for _, child := range node.Children {
		printTree(w, child, depth+1)
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseDueDate parses a YYYY-MM-DD due date argument.
func parseDueDate(value string) (time.Time, error) {
	due, err := time.ParseInLocation(constants.DueDateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrInvalidDueDate,
			"due date %q must be in YYYY-MM-DD format", value)
	}
	return due, nil
}
