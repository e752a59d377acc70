package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/grove/internal/store"
)

// newWatchCmd creates the watch command.
func newWatchCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [task-id]",
		Short: "Stream live task changes",
		Long: `Stream task changes as they happen, until interrupted.

Without arguments every task change is streamed; with a task id only
changes to that task. Only changes made through this process are
observed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID := ""
			if len(args) == 1 {
				taskID = args[0]
			}
			return runWatch(cmd.Context(), cmd.OutOrStdout(), taskID, global)
		},
	}
}

// runWatch executes the watch command. It blocks until the context is
// canceled or the subscription is closed.
func runWatch(ctx context.Context, w io.Writer, taskID string, global *GlobalFlags) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	var sub *store.Subscription
	if taskID != "" {
		sub, err = svc.store.Watch(ctx, taskID)
	} else {
		sub, err = svc.store.WatchAll(ctx)
	}
	if err != nil {
		return err
	}
	defer sub.Cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-sub.C:
			if !ok {
				return nil
			}
			if err := printChange(w, change, global.Output); err != nil {
				return err
			}
		}
	}
}

// printChange renders a single change feed event.
func printChange(w io.Writer, change store.Change, output string) error {
	if output == OutputJSON {
		return printJSON(w, change)
	}

	switch change.Type {
	case store.ChangeDelete:
		fmt.Fprintf(w, "%d delete %s\n", change.Seq, change.ID)
	default:
		fmt.Fprintf(w, "%d put    %s\n", change.Seq, formatTaskLine(change.Task))
	}
	return nil
}

// AddWatchCommand adds the watch command to the root command.
func AddWatchCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newWatchCmd(global))
}
