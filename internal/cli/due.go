package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// dueFlags holds the flags for the due command.
type dueFlags struct {
	clear bool
}

// newDueCmd creates the due command.
func newDueCmd(global *GlobalFlags) *cobra.Command {
	flags := &dueFlags{}

	cmd := &cobra.Command{
		Use:   "due <task-id> [date]",
		Short: "Set or clear a task's due date",
		Long: `Set a task's due date (YYYY-MM-DD), or clear it with --clear.

Examples:
  grove due 4f1c... 2026-09-01
  grove due 4f1c... --clear`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := ""
			if len(args) == 2 {
				date = args[1]
			}
			return runDue(cmd.Context(), cmd.OutOrStdout(), args[0], date, flags, global)
		},
	}

	cmd.Flags().BoolVar(&flags.clear, "clear", false, "remove the due date")

	return cmd
}

// runDue executes the due command.
func runDue(ctx context.Context, w io.Writer, taskID, date string, flags *dueFlags, global *GlobalFlags) error {
	if flags.clear == (date != "") {
		return fmt.Errorf("requires at least a date or --clear, but not both")
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	var due *time.Time
	if !flags.clear {
		parsed, perr := parseDueDate(date)
		if perr != nil {
			return perr
		}
		due = &parsed
	}

	updated, err := svc.commands.SetTaskDueDate(ctx, taskID, due)
	if err != nil {
		return err
	}

	if global.Output == OutputJSON {
		return printJSON(w, updated)
	}
	fmt.Fprintln(w, formatTaskLine(updated))
	return nil
}

// AddDueCommand adds the due command to the root command.
func AddDueCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newDueCmd(global))
}
