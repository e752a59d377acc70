package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/grove/internal/constants"
	"github.com/mrz1836/grove/internal/domain"
)

// stateFlags holds the flags for the state command.
type stateFlags struct {
	reason string
	next   bool
}

// newStateCmd creates the state command.
func newStateCmd(global *GlobalFlags) *cobra.Command {
	flags := &stateFlags{}

	cmd := &cobra.Command{
		Use:   "state <task-id> [new-state]",
		Short: "Change a task's state",
		Long: `Change a task's state, recording the change in its history.

States: NotStarted, InProgress, Blocked, Done. With --next the task
cycles to the next state in that order instead of naming one. A reason
can be attached when blocking a task.

Examples:
  grove state 4f1c... InProgress
  grove state 4f1c... Blocked --reason "waiting on review"
  grove state 4f1c... --next`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			newState := ""
			if len(args) == 2 {
				newState = args[1]
			}
			return runState(cmd.Context(), cmd.OutOrStdout(), args[0], newState, flags, global)
		},
	}

	cmd.Flags().StringVarP(&flags.reason, "reason", "r", "", "reason (recorded when blocking)")
	cmd.Flags().BoolVar(&flags.next, "next", false, "cycle to the next state")

	return cmd
}

// runState executes the state command.
func runState(ctx context.Context, w io.Writer, taskID, newState string, flags *stateFlags, global *GlobalFlags) error {
	if flags.next == (newState != "") {
		return fmt.Errorf("requires at least a new state or --next, but not both")
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	var updated domain.Task
	if flags.next {
		updated, err = svc.commands.ProgressTaskState(ctx, taskID)
	} else {
		updated, err = svc.commands.TransitionTaskState(ctx, taskID, constants.TaskState(newState), flags.reason)
	}
	if err != nil {
		return err
	}

	if global.Output == OutputJSON {
		return printJSON(w, updated)
	}
	fmt.Fprintln(w, formatTaskLine(updated))
	return nil
}

// AddStateCommand adds the state command to the root command.
func AddStateCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newStateCmd(global))
}
