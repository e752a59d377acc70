package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// newDeleteCmd creates the delete command.
func newDeleteCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task and its subtree",
		Long:  `Delete a task together with every task nested under it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.Context(), cmd.OutOrStdout(), args[0], global)
		},
	}
}

// runDelete executes the delete command.
func runDelete(ctx context.Context, w io.Writer, taskID string, global *GlobalFlags) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.commands.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	if global.Output == OutputJSON {
		return printJSON(w, map[string]string{"deleted": taskID})
	}
	fmt.Fprintf(w, "deleted %s\n", taskID)
	return nil
}

// AddDeleteCommand adds the delete command to the root command.
func AddDeleteCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newDeleteCmd(global))
}
