package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/grove/internal/domain"
	"github.com/mrz1836/grove/internal/errors"
)

// newTestEnv isolates a test from the real user environment: HOME points
// at a temp directory and the returned db path lives under it.
func newTestEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return filepath.Join(home, "grove-test.db")
}

// runCommand executes the grove CLI with the given arguments and returns
// the combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{})

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// addTask creates a task through the CLI and returns it decoded from the
// JSON output.
func addTask(t *testing.T, dbPath, text string, extra ...string) domain.Task {
	t.Helper()
	args := append([]string{"add", text, "--db", dbPath, "-o", "json"}, extra...)
	out, err := runCommand(t, args...)
	require.NoError(t, err)

	var task domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	return task
}

func TestRootCmd_ShowsHelpWithoutArgs(t *testing.T) {
	newTestEnv(t)

	out, err := runCommand(t)
	require.NoError(t, err)
	assert.Contains(t, out, "grove")
	assert.Contains(t, out, "Available Commands")
}

func TestRootCmd_InvalidOutputFormat(t *testing.T) {
	newTestEnv(t)

	_, err := runCommand(t, "list", "-o", "xml")
	require.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_Version(t *testing.T) {
	newTestEnv(t)

	out, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none, built: unknown)")
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: ExitSuccess},
		{name: "invalid text", err: errors.ErrInvalidTaskText, want: ExitInvalidInput},
		{name: "invalid due date", err: errors.ErrInvalidDueDate, want: ExitInvalidInput},
		{name: "yaml parse", err: errors.ErrYAMLParse, want: ExitInvalidInput},
		{name: "not found", err: errors.ErrTaskNotFound, want: ExitError},
		{name: "store failure", err: errors.NewStoreError("get", errors.ErrEmptyValue), want: ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}

func TestIsValidOutputFormat(t *testing.T) {
	assert.True(t, IsValidOutputFormat(OutputText))
	assert.True(t, IsValidOutputFormat(OutputJSON))
	assert.False(t, IsValidOutputFormat("xml"))
	assert.False(t, IsValidOutputFormat(""))
}
