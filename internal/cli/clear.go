package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// newClearCmd creates the clear command.
func newClearCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <task-id>",
		Short: "Delete a task's immediate subtasks",
		Long: `Delete the immediate children of a task.

Only one level is removed; deeper descendants of the cleared children
are not touched. Use delete to remove a whole subtree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(cmd.Context(), cmd.OutOrStdout(), args[0], global)
		},
	}
}

// runClear executes the clear command.
func runClear(ctx context.Context, w io.Writer, taskID string, global *GlobalFlags) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.commands.ClearSubtasks(ctx, taskID); err != nil {
		return err
	}

	if global.Output == OutputJSON {
		return printJSON(w, map[string]string{"cleared": taskID})
	}
	fmt.Fprintf(w, "cleared subtasks of %s\n", taskID)
	return nil
}

// AddClearCommand adds the clear command to the root command.
func AddClearCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newClearCmd(global))
}
