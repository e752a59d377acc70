package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/grove/internal/constants"
)

// newShowCmd creates the show command.
func newShowCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show task details",
		Long:  `Show a task's fields, including its full state history.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), cmd.OutOrStdout(), args[0], global)
		},
	}
}

// runShow executes the show command.
func runShow(ctx context.Context, w io.Writer, taskID string, global *GlobalFlags) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	t, err := svc.queries.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	if global.Output == OutputJSON {
		return printJSON(w, t)
	}

	fmt.Fprintf(w, "id:      %s\n", t.ID)
	fmt.Fprintf(w, "text:    %s\n", t.Text)
	fmt.Fprintf(w, "state:   %s\n", t.State)
	if t.State == constants.TaskStateBlocked && t.BlockedReason != "" {
		fmt.Fprintf(w, "blocked: %s\n", t.BlockedReason)
	}
	if t.DueDate != nil {
		fmt.Fprintf(w, "due:     %s\n", t.DueDate.Format(constants.DueDateLayout))
	}
	fmt.Fprintf(w, "depth:   %d\n", t.Depth())
	fmt.Fprintf(w, "created: %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "updated: %s\n", t.UpdatedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(w, "history:")
	for _, entry := range t.History {
		line := fmt.Sprintf("  %s  %s", entry.Timestamp.Format("2006-01-02 15:04:05"), entry.NewState)
		if entry.Reason != "" {
			line += fmt.Sprintf(" (%s)", entry.Reason)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// AddShowCommand adds the show command to the root command.
func AddShowCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newShowCmd(global))
}
