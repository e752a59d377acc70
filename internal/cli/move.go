package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/grove/internal/constants"
)

// moveFlags holds the flags for the move command.
type moveFlags struct {
	toTop bool
}

// newMoveCmd creates the move command.
func newMoveCmd(global *GlobalFlags) *cobra.Command {
	flags := &moveFlags{}

	cmd := &cobra.Command{
		Use:   "move <task-id> [new-parent-id]",
		Short: "Move a task to a new parent",
		Long: `Move a task (and its whole subtree) under a different parent.

With --top the task becomes a top-level task instead of naming a parent.
A task can never be moved into its own subtree.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			newParent := ""
			if len(args) == 2 {
				newParent = args[1]
			}
			return runMove(cmd.Context(), cmd.OutOrStdout(), args[0], newParent, flags, global)
		},
	}

	cmd.Flags().BoolVar(&flags.toTop, "top", false, "move to the top level")

	return cmd
}

// runMove executes the move command.
func runMove(ctx context.Context, w io.Writer, taskID, newParentID string, flags *moveFlags, global *GlobalFlags) error {
	if flags.toTop {
		newParentID = constants.RootTaskID
	}
	if newParentID == "" {
		return fmt.Errorf("requires at least a new parent id or --top")
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	moved, err := svc.commands.MoveTask(ctx, taskID, newParentID)
	if err != nil {
		return err
	}

	if global.Output == OutputJSON {
		return printJSON(w, moved)
	}
	fmt.Fprintln(w, formatTaskLine(moved))
	return nil
}

// AddMoveCommand adds the move command to the root command.
func AddMoveCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newMoveCmd(global))
}
