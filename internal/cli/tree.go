package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// newTreeCmd creates the tree command.
func newTreeCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [task-id]",
		Short: "Show the task tree",
		Long: `Show tasks as an indented tree.

Without arguments the whole forest of top-level tasks is shown. With a
task id, only the subtree rooted at that task.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID := ""
			if len(args) == 1 {
				taskID = args[0]
			}
			return runTree(cmd.Context(), cmd.OutOrStdout(), taskID, global)
		},
	}
}

// runTree executes the tree command.
func runTree(ctx context.Context, w io.Writer, taskID string, global *GlobalFlags) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	if taskID != "" {
		node, terr := svc.queries.GetTaskTree(ctx, taskID)
		if terr != nil {
			return terr
		}
		if global.Output == OutputJSON {
			return printJSON(w, node)
		}
		printTree(w, node, 0)
		return nil
	}

	forest, err := svc.queries.GetRootTaskForest(ctx)
	if err != nil {
		return err
	}
	if global.Output == OutputJSON {
		return printJSON(w, forest)
	}
	for _, node := range forest {
		printTree(w, node, 0)
	}
	return nil
}

// AddTreeCommand adds the tree command to the root command.
func AddTreeCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newTreeCmd(global))
}
