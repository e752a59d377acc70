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

func TestGetTaskTree_AssemblesSubtree(t *testing.T) {
	cmd, qry, _ := newTestServices(t)
	ctx := context.Background()

	a := mustCreateTask(t, cmd, "A", "")
	a1 := mustCreateTask(t, cmd, "A.1", a.ID)
	a2 := mustCreateTask(t, cmd, "A.2", a.ID)
	a1a := mustCreateTask(t, cmd, "A.1.a", a1.ID)

	tree, err := qry.GetTaskTree(ctx, a.ID)
	require.NoError(t, err)

	assert.Equal(t, a.ID, tree.Task.ID)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, a1.ID, tree.Children[0].Task.ID, "children ordered by creation time")
	assert.Equal(t, a2.ID, tree.Children[1].Task.ID)

	require.Len(t, tree.Children[0].Children, 1)
	assert.Equal(t, a1a.ID, tree.Children[0].Children[0].Task.ID)
	assert.Empty(t, tree.Children[1].Children)
}

func TestGetTaskTree_NotFound(t *testing.T) {
	_, qry, _ := newTestServices(t)

	_, err := qry.GetTaskTree(context.Background(), "b4c8a9e2-0000-4000-8000-000000000099")
	require.ErrorIs(t, err, groveerrors.ErrTaskNotFound)
}

func TestGetRootTaskForest(t *testing.T) {
	cmd, qry, _ := newTestServices(t)
	ctx := context.Background()

	a := mustCreateTask(t, cmd, "A", "")
	b := mustCreateTask(t, cmd, "B", "")
	b1 := mustCreateTask(t, cmd, "B.1", b.ID)

	forest, err := qry.GetRootTaskForest(ctx)
	require.NoError(t, err)
	require.Len(t, forest, 2)

	assert.Equal(t, a.ID, forest[0].Task.ID)
	assert.Equal(t, b.ID, forest[1].Task.ID)
	require.Len(t, forest[1].Children, 1)
	assert.Equal(t, b1.ID, forest[1].Children[0].Task.ID)
}

func TestGetRootTaskForest_EmptyStore(t *testing.T) {
	_, qry, _ := newTestServices(t)

	forest, err := qry.GetRootTaskForest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, forest)
}

func TestGetTasksByState(t *testing.T) {
	cmd, qry, _ := newTestServices(t)
	ctx := context.Background()

	mustCreateTask(t, cmd, "idle", "")
	active := mustCreateTask(t, cmd, "active", "")
	_, err := cmd.TransitionTaskState(ctx, active.ID, constants.TaskStateInProgress, "")
	require.NoError(t, err)

	got, err := qry.GetTasksByState(ctx, constants.TaskStateInProgress)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, active.ID, got[0].ID)

	idle, err := qry.GetTasksByState(ctx, constants.TaskStateNotStarted)
	require.NoError(t, err)
	require.Len(t, idle, 1, "root task is excluded from state queries")
}

func TestGetOverdueTasks(t *testing.T) {
	cmd, qry, clk := newTestServices(t)
	ctx := context.Background()

	past := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	late := mustCreateTask(t, cmd, "late", "")
	_, err := cmd.SetTaskDueDate(ctx, late.ID, &past)
	require.NoError(t, err)

	later := mustCreateTask(t, cmd, "even later", "")
	_, err = cmd.SetTaskDueDate(ctx, later.ID, &earlier)
	require.NoError(t, err)

	finished := mustCreateTask(t, cmd, "finished late", "")
	_, err = cmd.SetTaskDueDate(ctx, finished.ID, &past)
	require.NoError(t, err)
	_, err = cmd.CompleteTask(ctx, finished.ID)
	require.NoError(t, err)

	upcoming := mustCreateTask(t, cmd, "upcoming", "")
	_, err = cmd.SetTaskDueDate(ctx, upcoming.ID, &future)
	require.NoError(t, err)

	mustCreateTask(t, cmd, "no due date", "")

	clk.At = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	got, err := qry.GetOverdueTasks(ctx)
	require.NoError(t, err)

	require.Len(t, got, 2, "done, future and undated tasks are never overdue")
	assert.Equal(t, later.ID, got[0].ID, "ordered by due date ascending")
	assert.Equal(t, late.ID, got[1].ID)
}

func TestSearchTasks(t *testing.T) {
	cmd, qry, _ := newTestServices(t)
	ctx := context.Background()

	buy := mustCreateTask(t, cmd, "Buy groceries", "")
	mustCreateTask(t, cmd, "Call dentist", "")
	nested := mustCreateTask(t, cmd, "buy stamps", buy.ID)

	got, err := qry.SearchTasks(ctx, "BUY")
	require.NoError(t, err)
	require.Len(t, got, 2, "matching is case-insensitive and spans all levels")

	ids := []string{got[0].ID, got[1].ID}
	assert.Contains(t, ids, buy.ID)
	assert.Contains(t, ids, nested.ID)
}

func TestSearchTasks_EmptyQuery(t *testing.T) {
	cmd, qry, _ := newTestServices(t)
	mustCreateTask(t, cmd, "anything", "")

	got, err := qry.SearchTasks(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExportTaskYAML(t *testing.T) {
	cmd, qry, _ := newTestServices(t)
	ctx := context.Background()

	parent := mustCreateTask(t, cmd, "Plan the trip", "")
	child := mustCreateTask(t, cmd, "Book flights", parent.ID)
	_, err := cmd.TransitionTaskState(ctx, child.ID, constants.TaskStateInProgress, "")
	require.NoError(t, err)

	got, err := qry.ExportTaskYAML(ctx, parent.ID)
	require.NoError(t, err)

	assert.Equal(t, "text: Plan the trip\nchildren:\n  - text: Book flights\n    state: InProgress\n", got)
}

func TestQueryService_StoreErrorPropagates(t *testing.T) {
	cmd, qry, _ := newTestServices(t)
	mustCreateTask(t, cmd, "soon unreachable", "")

	// Closing the store makes every query fail with a StoreError.
	closeStore(t, qry)

	_, err := qry.GetOverdueTasks(context.Background())
	require.Error(t, err)
	op, ok := groveerrors.IsStoreError(err)
	require.True(t, ok)
	assert.NotEmpty(t, op)
}

func closeStore(t *testing.T, qry *QueryService) {
	t.Helper()
	closer, ok := qry.repo.(interface{ Close() error })
	require.True(t, ok)
	require.NoError(t, closer.Close())
}
