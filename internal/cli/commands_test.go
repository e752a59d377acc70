package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/grove/internal/constants"
	"github.com/mrz1836/grove/internal/domain"
	"github.com/mrz1836/grove/internal/errors"
)

func TestAddCommand_TopLevel(t *testing.T) {
	dbPath := newTestEnv(t)

	task := addTask(t, dbPath, "Plan the trip")

	assert.Equal(t, "Plan the trip", task.Text)
	assert.Equal(t, constants.TaskStateNotStarted, task.State)
	assert.Equal(t, constants.RootTaskID, task.ParentID())
}

func TestAddCommand_WithParentAndDue(t *testing.T) {
	dbPath := newTestEnv(t)
	parent := addTask(t, dbPath, "Plan the trip")

	child := addTask(t, dbPath, "Book flights", "--parent", parent.ID, "--due", "2026-09-01")

	assert.Equal(t, parent.ID, child.ParentID())
	require.NotNil(t, child.DueDate)
	assert.Equal(t, "2026-09-01", child.DueDate.Format(constants.DueDateLayout))
}

func TestAddCommand_InvalidDueDate(t *testing.T) {
	dbPath := newTestEnv(t)

	_, err := runCommand(t, "add", "task", "--db", dbPath, "--due", "tomorrow")
	require.ErrorIs(t, err, errors.ErrInvalidDueDate)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestAddCommand_EmptyText(t *testing.T) {
	dbPath := newTestEnv(t)

	_, err := runCommand(t, "add", "", "--db", dbPath)
	require.ErrorIs(t, err, errors.ErrInvalidTaskText)
}

func TestListCommand_FiltersByState(t *testing.T) {
	dbPath := newTestEnv(t)
	addTask(t, dbPath, "idle task")
	active := addTask(t, dbPath, "active task")

	_, err := runCommand(t, "state", active.ID, "InProgress", "--db", dbPath)
	require.NoError(t, err)

	out, err := runCommand(t, "list", "--state", "InProgress", "--db", dbPath, "-o", "json")
	require.NoError(t, err)

	var tasks []domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, active.ID, tasks[0].ID)
}

func TestTreeCommand_RendersIndentedSubtree(t *testing.T) {
	dbPath := newTestEnv(t)
	parent := addTask(t, dbPath, "Plan the trip")
	addTask(t, dbPath, "Book flights", "--parent", parent.ID)

	out, err := runCommand(t, "tree", parent.ID, "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "[ ] Plan the trip")
	assert.Contains(t, out, "  [ ] Book flights")
}

func TestStateCommand_BlockWithReason(t *testing.T) {
	dbPath := newTestEnv(t)
	task := addTask(t, dbPath, "stuck soon")

	out, err := runCommand(t, "state", task.ID, "Blocked", "--reason", "waiting on parts", "--db", dbPath, "-o", "json")
	require.NoError(t, err)

	var blocked domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &blocked))
	assert.Equal(t, constants.TaskStateBlocked, blocked.State)
	assert.Equal(t, "waiting on parts", blocked.BlockedReason)
}

func TestStateCommand_NextCycles(t *testing.T) {
	dbPath := newTestEnv(t)
	task := addTask(t, dbPath, "cycling")

	out, err := runCommand(t, "state", task.ID, "--next", "--db", dbPath, "-o", "json")
	require.NoError(t, err)

	var progressed domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &progressed))
	assert.Equal(t, constants.TaskStateInProgress, progressed.State)
}

func TestStateCommand_RequiresStateOrNext(t *testing.T) {
	dbPath := newTestEnv(t)
	task := addTask(t, dbPath, "ambiguous")

	_, err := runCommand(t, "state", task.ID, "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestDoneCommand(t *testing.T) {
	dbPath := newTestEnv(t)
	task := addTask(t, dbPath, "finish me")

	out, err := runCommand(t, "done", task.ID, "--db", dbPath, "-o", "json")
	require.NoError(t, err)

	var completed domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &completed))
	assert.Equal(t, constants.TaskStateDone, completed.State)
}

func TestDueCommand_SetAndClear(t *testing.T) {
	dbPath := newTestEnv(t)
	task := addTask(t, dbPath, "due soon")

	out, err := runCommand(t, "due", task.ID, "2026-09-01", "--db", dbPath, "-o", "json")
	require.NoError(t, err)
	var updated domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	require.NotNil(t, updated.DueDate)

	out, err = runCommand(t, "due", task.ID, "--clear", "--db", dbPath, "-o", "json")
	require.NoError(t, err)
	var cleared domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &cleared))
	assert.Nil(t, cleared.DueDate)
}

func TestDeleteCommand_RemovesSubtree(t *testing.T) {
	dbPath := newTestEnv(t)
	parent := addTask(t, dbPath, "Plan the trip")
	child := addTask(t, dbPath, "Book flights", "--parent", parent.ID)

	_, err := runCommand(t, "delete", parent.ID, "--db", dbPath)
	require.NoError(t, err)

	_, err = runCommand(t, "show", child.ID, "--db", dbPath)
	require.ErrorIs(t, err, errors.ErrTaskNotFound)
}

func TestClearCommand_RemovesOneLevel(t *testing.T) {
	dbPath := newTestEnv(t)
	parent := addTask(t, dbPath, "parent")
	child := addTask(t, dbPath, "child", "--parent", parent.ID)
	grandchild := addTask(t, dbPath, "grandchild", "--parent", child.ID)

	_, err := runCommand(t, "clear", parent.ID, "--db", dbPath)
	require.NoError(t, err)

	_, err = runCommand(t, "show", child.ID, "--db", dbPath)
	require.ErrorIs(t, err, errors.ErrTaskNotFound)

	_, err = runCommand(t, "show", grandchild.ID, "--db", dbPath)
	require.NoError(t, err)
}

func TestMoveCommand_ReparentsTask(t *testing.T) {
	dbPath := newTestEnv(t)
	a := addTask(t, dbPath, "A")
	b := addTask(t, dbPath, "B")
	child := addTask(t, dbPath, "child", "--parent", a.ID)

	out, err := runCommand(t, "move", child.ID, b.ID, "--db", dbPath, "-o", "json")
	require.NoError(t, err)

	var moved domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &moved))
	assert.Equal(t, b.ID, moved.ParentID())
}

func TestMoveCommand_ToTop(t *testing.T) {
	dbPath := newTestEnv(t)
	a := addTask(t, dbPath, "A")
	child := addTask(t, dbPath, "child", "--parent", a.ID)

	out, err := runCommand(t, "move", child.ID, "--top", "--db", dbPath, "-o", "json")
	require.NoError(t, err)

	var moved domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &moved))
	assert.Equal(t, constants.RootTaskID, moved.ParentID())
}

func TestSearchCommand(t *testing.T) {
	dbPath := newTestEnv(t)
	addTask(t, dbPath, "Buy groceries")
	addTask(t, dbPath, "Call dentist")

	out, err := runCommand(t, "search", "buy", "--db", dbPath, "-o", "json")
	require.NoError(t, err)

	var matches []domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "Buy groceries", matches[0].Text)
}

func TestOverdueCommand(t *testing.T) {
	dbPath := newTestEnv(t)
	late := addTask(t, dbPath, "late", "--due", "2020-01-01")
	addTask(t, dbPath, "future", "--due", "2999-01-01")

	out, err := runCommand(t, "overdue", "--db", dbPath, "-o", "json")
	require.NoError(t, err)

	var overdue []domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &overdue))
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)
}
