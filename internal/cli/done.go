package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// newDoneCmd creates the done command.
func newDoneCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDone(cmd.Context(), cmd.OutOrStdout(), args[0], global)
		},
	}
}

// runDone executes the done command.
func runDone(ctx context.Context, w io.Writer, taskID string, global *GlobalFlags) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	completed, err := svc.commands.CompleteTask(ctx, taskID)
	if err != nil {
		return err
	}

	if global.Output == OutputJSON {
		return printJSON(w, completed)
	}
	fmt.Fprintln(w, formatTaskLine(completed))
	return nil
}

// AddDoneCommand adds the done command to the root command.
func AddDoneCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newDoneCmd(global))
}
