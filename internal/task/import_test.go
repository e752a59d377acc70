package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/grove/internal/constants"
	groveerrors "github.com/mrz1836/grove/internal/errors"
)

func TestImportTaskYAML_CanonicalScenario(t *testing.T) {
	cmd, qry, _ := newTestServices(t)
	ctx := context.Background()

	parent := mustCreateTask(t, cmd, "Root", "")
	a := mustCreateTask(t, cmd, "A", parent.ID)
	c := mustCreateTask(t, cmd, "C", parent.ID)

	yamlText := []byte("text: Root\nchildren:\n  - text: A\n    state: InProgress\n  - text: B\n    state: Done\n")
	require.NoError(t, cmd.ImportTaskYAML(ctx, parent.ID, yamlText))

	// A matched by text and updated in place.
	updated, err := qry.GetTask(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStateInProgress, updated.State)

	// C absent from the YAML, deleted.
	_, err = qry.GetTask(ctx, c.ID)
	require.ErrorIs(t, err, groveerrors.ErrTaskNotFound)

	// B created in Done state under the parent.
	children, err := qry.Children(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "A", children[0].Text)
	assert.Equal(t, "B", children[1].Text)
	assert.Equal(t, constants.TaskStateDone, children[1].State)
}

func TestImportTaskYAML_CreatesNestedSubtree(t *testing.T) {
	cmd, qry, _ := newTestServices(t)
	ctx := context.Background()

	parent := mustCreateTask(t, cmd, "Plan", "")

	yamlText := []byte(`text: Plan
children:
  - text: Phase one
    dueDate: 2026-04-01
    children:
      - text: Step one
      - text: Step two
        state: Blocked
`)
	require.NoError(t, cmd.ImportTaskYAML(ctx, parent.ID, yamlText))

	tree, err := qry.GetTaskTree(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)

	phase := tree.Children[0]
	assert.Equal(t, "Phase one", phase.Task.Text)
	require.NotNil(t, phase.Task.DueDate)
	assert.Equal(t, "2026-04-01", phase.Task.DueDate.Format(constants.DueDateLayout))

	require.Len(t, phase.Children, 2)
	assert.Equal(t, "Step one", phase.Children[0].Task.Text)
	assert.Equal(t, "Step two", phase.Children[1].Task.Text)
	assert.Equal(t, constants.TaskStateBlocked, phase.Children[1].Task.State)
}

func TestImportTaskYAML_StateWinsOverTransitionRules(t *testing.T) {
	cmd, qry, _ := newTestServices(t)
	ctx := context.Background()

	parent := mustCreateTask(t, cmd, "Root", "")
	child := mustCreateTask(t, cmd, "A", parent.ID)
	_, err := cmd.CompleteTask(ctx, child.ID)
	require.NoError(t, err)

	// Done to InProgress is rejected by the state machine, but an import
	// is last-write-wins at the field level.
	yamlText := []byte("text: Root\nchildren:\n  - text: A\n    state: InProgress\n")
	require.NoError(t, cmd.ImportTaskYAML(ctx, parent.ID, yamlText))

	reopened, err := qry.GetTask(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStateInProgress, reopened.State)
	assert.Equal(t, constants.TaskStateInProgress, reopened.History[len(reopened.History)-1].NewState)
}

func TestImportTaskYAML_AbsentFieldsResetToDefaults(t *testing.T) {
	cmd, qry, _ := newTestServices(t)
	ctx := context.Background()

	parent := mustCreateTask(t, cmd, "Root", "")
	child := mustCreateTask(t, cmd, "A", parent.ID)
	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err := cmd.SetTaskDueDate(ctx, child.ID, &due)
	require.NoError(t, err)
	_, err = cmd.TransitionTaskState(ctx, child.ID, constants.TaskStateInProgress, "")
	require.NoError(t, err)

	yamlText := []byte("text: Root\nchildren:\n  - text: A\n")
	require.NoError(t, cmd.ImportTaskYAML(ctx, parent.ID, yamlText))

	reset, err := qry.GetTask(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStateNotStarted, reset.State)
	assert.Nil(t, reset.DueDate)
}

func TestImportTaskYAML_DeletesCascade(t *testing.T) {
	cmd, qry, _ := newTestServices(t)
	ctx := context.Background()

	parent := mustCreateTask(t, cmd, "Root", "")
	child := mustCreateTask(t, cmd, "A", parent.ID)
	grandchild := mustCreateTask(t, cmd, "A.1", child.ID)

	yamlText := []byte("text: Root\n")
	require.NoError(t, cmd.ImportTaskYAML(ctx, parent.ID, yamlText))

	_, err := qry.GetTask(ctx, child.ID)
	require.ErrorIs(t, err, groveerrors.ErrTaskNotFound)
	_, err = qry.GetTask(ctx, grandchild.ID)
	require.ErrorIs(t, err, groveerrors.ErrTaskNotFound, "import deletion removes the whole subtree")
}

func TestImportTaskYAML_ParseError(t *testing.T) {
	cmd, _, _ := newTestServices(t)
	parent := mustCreateTask(t, cmd, "Root", "")

	err := cmd.ImportTaskYAML(context.Background(), parent.ID, []byte("text: [unclosed"))
	require.ErrorIs(t, err, groveerrors.ErrYAMLParse)
}

func TestImportTaskYAML_ValidationError(t *testing.T) {
	cmd, _, _ := newTestServices(t)
	parent := mustCreateTask(t, cmd, "Root", "")

	err := cmd.ImportTaskYAML(context.Background(), parent.ID, []byte("state: Done\n"))
	require.ErrorIs(t, err, groveerrors.ErrYAMLValidation)
}

func TestImportTaskYAML_RoundTripIsStable(t *testing.T) {
	cmd, qry, _ := newTestServices(t)
	ctx := context.Background()

	parent := mustCreateTask(t, cmd, "Trip", "")
	a := mustCreateTask(t, cmd, "Book flights", parent.ID)
	_, err := cmd.TransitionTaskState(ctx, a.ID, constants.TaskStateInProgress, "")
	require.NoError(t, err)
	mustCreateTask(t, cmd, "Pack bags", parent.ID)

	exported, err := qry.ExportTaskYAML(ctx, parent.ID)
	require.NoError(t, err)

	require.NoError(t, cmd.ImportTaskYAML(ctx, parent.ID, []byte(exported)))

	again, err := qry.ExportTaskYAML(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, exported, again)

	// Matched by text, the existing tasks keep their ids.
	children, err := qry.Children(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, a.ID, children[0].ID)
}
