package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/grove/internal/errors"
)

func TestExportCommand_WritesYAML(t *testing.T) {
	dbPath := newTestEnv(t)
	parent := addTask(t, dbPath, "Plan the trip")
	addTask(t, dbPath, "Book flights", "--parent", parent.ID)

	out, err := runCommand(t, "export", parent.ID, "--db", dbPath)
	require.NoError(t, err)

	assert.Equal(t, "text: Plan the trip\nchildren:\n  - text: Book flights\n", out)
}

func TestExportCommand_ToFile(t *testing.T) {
	dbPath := newTestEnv(t)
	parent := addTask(t, dbPath, "Plan the trip")
	outFile := filepath.Join(t.TempDir(), "plan.yaml")

	_, err := runCommand(t, "export", parent.ID, "--out", outFile, "--db", dbPath)
	require.NoError(t, err)

	content, err := os.ReadFile(outFile) //nolint:gosec // Test-controlled path
	require.NoError(t, err)
	assert.Equal(t, "text: Plan the trip\n", string(content))
}

func TestImportCommand_FromFile(t *testing.T) {
	dbPath := newTestEnv(t)
	parent := addTask(t, dbPath, "Plan the trip")

	yamlFile := filepath.Join(t.TempDir(), "plan.yaml")
	yamlText := "text: Plan the trip\nchildren:\n  - text: Book flights\n    state: InProgress\n"
	require.NoError(t, os.WriteFile(yamlFile, []byte(yamlText), 0o600))

	_, err := runCommand(t, "import", parent.ID, yamlFile, "--db", dbPath)
	require.NoError(t, err)

	out, err := runCommand(t, "export", parent.ID, "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, yamlText, out)
}

func TestImportCommand_FromStdin(t *testing.T) {
	dbPath := newTestEnv(t)
	parent := addTask(t, dbPath, "Plan the trip")

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{})
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(bytes.NewBufferString("text: Plan the trip\nchildren:\n  - text: Pack bags\n"))
	cmd.SetArgs([]string{"import", parent.ID, "--db", dbPath})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	out, err := runCommand(t, "tree", parent.ID, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Pack bags")
}

func TestImportCommand_MalformedYAML(t *testing.T) {
	dbPath := newTestEnv(t)
	parent := addTask(t, dbPath, "Plan the trip")

	yamlFile := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte("text: [unclosed"), 0o600))

	_, err := runCommand(t, "import", parent.ID, yamlFile, "--db", dbPath)
	require.ErrorIs(t, err, errors.ErrYAMLParse)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}
