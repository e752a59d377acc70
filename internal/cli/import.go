package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// newImportCmd creates the import command.
func newImportCmd(_ *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <task-id> [file]",
		Short: "Import YAML into a task subtree",
		Long: `Reconcile a YAML document against the subtree rooted at a task.

The YAML is matched against the stored children (by id when present,
otherwise by text). Matched tasks are updated, new entries are created,
and stored children missing from the YAML are deleted with their
subtrees. Reads from stdin when no file is given.

Examples:
  grove import 4f1c... plan.yaml
  grove export 4f1c... | sed s/Draft/Final/ | grove import 4f1c...`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 2 {
				file = args[1]
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), args[0], file)
		},
	}
}

// runImport executes the import command.
func runImport(ctx context.Context, w io.Writer, stdin io.Reader, taskID, file string) error {
	var yamlText []byte
	var err error
	if file != "" {
		yamlText, err = os.ReadFile(file) //nolint:gosec // User-supplied path by design of the command
	} else {
		yamlText, err = io.ReadAll(stdin)
	}
	if err != nil {
		return err
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.commands.ImportTaskYAML(ctx, taskID, yamlText); err != nil {
		return err
	}

	fmt.Fprintf(w, "imported into %s\n", taskID)
	return nil
}

// AddImportCommand adds the import command to the root command.
func AddImportCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newImportCmd(global))
}
