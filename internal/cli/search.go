package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// newSearchCmd creates the search command.
func newSearchCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search tasks by text",
		Long:  `Search all tasks for a case-insensitive text match.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd.OutOrStdout(), args[0], global)
		},
	}
}

// runSearch executes the search command.
func runSearch(ctx context.Context, w io.Writer, query string, global *GlobalFlags) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	matches, err := svc.queries.SearchTasks(ctx, query)
	if err != nil {
		return err
	}

	if global.Output == OutputJSON {
		return printJSON(w, matches)
	}
	printTaskList(w, matches)
	return nil
}

// AddSearchCommand adds the search command to the root command.
func AddSearchCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newSearchCmd(global))
}
