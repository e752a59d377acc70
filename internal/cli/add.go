package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/grove/internal/constants"
	"github.com/mrz1836/grove/internal/logging"
	"github.com/mrz1836/grove/internal/task"
)

// addFlags holds the flags for the add command.
type addFlags struct {
	parent string
	due    string
	state  string
}

// newAddCmd creates the add command.
func newAddCmd(global *GlobalFlags) *cobra.Command {
	flags := &addFlags{}

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a new task",
		Long: `Add a new task to the tree.

Without --parent the task is created at the top level. The optional due
date uses YYYY-MM-DD format.

Examples:
  grove add "Plan the trip"
  grove add "Book flights" --parent 4f1c... --due 2026-09-01
  grove add "Already rolling" --state InProgress`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), cmd.OutOrStdout(), args[0], flags, global)
		},
	}

	cmd.Flags().StringVarP(&flags.parent, "parent", "p", "", "parent task id (default: top level)")
	cmd.Flags().StringVar(&flags.due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.state, "state", "", "initial state (default NotStarted)")

	return cmd
}

// runAdd executes the add command.
func runAdd(ctx context.Context, w io.Writer, text string, flags *addFlags, global *GlobalFlags) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	in := task.CreateTaskInput{
		Text:     text,
		ParentID: flags.parent,
		State:    constants.TaskState(flags.state),
	}
	if flags.due != "" {
		due, derr := parseDueDate(flags.due)
		if derr != nil {
			return derr
		}
		in.DueDate = &due
	}

	created, err := svc.commands.CreateTask(ctx, in)
	if err != nil {
		return err
	}

	logger := GetLogger()
	logger.Debug().Str("task_id", created.ID).Str("text", logging.SafeText(created.Text)).Msg("add command completed")

	if global.Output == OutputJSON {
		return printJSON(w, created)
	}
	fmt.Fprintln(w, formatTaskLine(created))
	return nil
}

// AddAddCommand adds the add command to the root command.
func AddAddCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newAddCmd(global))
}
