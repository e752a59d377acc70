package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// newOverdueCmd creates the overdue command.
func newOverdueCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List overdue tasks",
		Long: `List tasks whose due date has passed and that are not done,
ordered by due date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOverdue(cmd.Context(), cmd.OutOrStdout(), global)
		},
	}
}

// runOverdue executes the overdue command.
func runOverdue(ctx context.Context, w io.Writer, global *GlobalFlags) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	overdue, err := svc.queries.GetOverdueTasks(ctx)
	if err != nil {
		return err
	}

	if global.Output == OutputJSON {
		return printJSON(w, overdue)
	}
	printTaskList(w, overdue)
	return nil
}

// AddOverdueCommand adds the overdue command to the root command.
func AddOverdueCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newOverdueCmd(global))
}
