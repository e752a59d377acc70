package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// exportFlags holds the flags for the export command.
type exportFlags struct {
	out string
}

// newExportCmd creates the export command.
func newExportCmd(_ *GlobalFlags) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export <task-id>",
		Short: "Export a task subtree to YAML",
		Long: `Export a task and everything nested under it as YAML.

The output is an edit surface: internal ids and history are omitted, and
the file can be edited and fed back to grove import.

Examples:
  grove export 4f1c...
  grove export 4f1c... --out plan.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.out, "out", "", "write to file instead of stdout")

	return cmd
}

// runExport executes the export command.
func runExport(ctx context.Context, w io.Writer, taskID string, flags *exportFlags) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	yamlText, err := svc.queries.ExportTaskYAML(ctx, taskID)
	if err != nil {
		return err
	}

	if flags.out != "" {
		return os.WriteFile(flags.out, []byte(yamlText), 0o600)
	}
	fmt.Fprint(w, yamlText)
	return nil
}

// AddExportCommand adds the export command to the root command.
func AddExportCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newExportCmd(global))
}
