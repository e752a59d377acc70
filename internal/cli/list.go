package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/grove/internal/constants"
	"github.com/mrz1836/grove/internal/domain"
)

// listFlags holds the flags for the list command.
type listFlags struct {
	state string
}

// newListCmd creates the list command.
func newListCmd(global *GlobalFlags) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List all tasks across every level of the tree.

With --state, only tasks in that state are listed.

Examples:
  grove list
  grove list --state InProgress`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmd.OutOrStdout(), flags, global)
		},
	}

	cmd.Flags().StringVarP(&flags.state, "state", "s", "", "filter by state (NotStarted|InProgress|Blocked|Done)")

	return cmd
}

// runList executes the list command.
func runList(ctx context.Context, w io.Writer, flags *listFlags, global *GlobalFlags) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	var tasks []domain.Task
	if flags.state != "" {
		tasks, err = svc.queries.GetTasksByState(ctx, constants.TaskState(flags.state))
	} else {
		tasks, err = svc.queries.ListTasks(ctx)
	}
	if err != nil {
		return err
	}

	if global.Output == OutputJSON {
		return printJSON(w, tasks)
	}
	printTaskList(w, tasks)
	return nil
}

// AddListCommand adds the list command to the root command.
func AddListCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newListCmd(global))
}
