package task

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/grove/internal/clock"
	"github.com/mrz1836/grove/internal/constants"
	"github.com/mrz1836/grove/internal/domain"
	"github.com/mrz1836/grove/internal/reconcile"
	"github.com/mrz1836/grove/internal/store"
)

// TreeNode is a task with its children resolved, forming an in-memory
// subtree assembled from the flat store.
type TreeNode struct {
	// Task is the node's task.
	Task domain.Task `json:"task"`

	// Children are the node's immediate children, ordered by creation
	// time.
	Children []*TreeNode `json:"children,omitempty"`
}

// QueryService executes read operations against the task tree.
type QueryService struct {
	repo   store.Repository
	clock  clock.Clock
	logger zerolog.Logger
}

// NewQueryService creates a query service over the given repository.
func NewQueryService(repo store.Repository, clk clock.Clock, logger zerolog.Logger) *QueryService {
	return &QueryService{repo: repo, clock: clk, logger: logger}
}

// GetTask returns a single task by id.
func (s *QueryService) GetTask(ctx context.Context, taskID string) (domain.Task, error) {
	return s.repo.GetByID(ctx, taskID)
}

// Children returns a task's immediate children, ordered by creation time.
func (s *QueryService) Children(ctx context.Context, taskID string) ([]domain.Task, error) {
	children, err := s.repo.GetImmediateChildren(ctx, taskID)
	if err != nil {
		return nil, err
	}
	sortByCreation(children)
	return children, nil
}

// GetTaskTree returns the subtree rooted at taskID, assembled from one
// descendant scan. Fails ErrTaskNotFound if the root task is missing.
func (s *QueryService) GetTaskTree(ctx context.Context, taskID string) (*TreeNode, error) {
	root, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	descendants, err := s.repo.GetDescendants(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return assembleTree(root, descendants), nil
}

// GetRootTaskForest returns the subtrees of every top-level task (the
// root's immediate children), fetched concurrently. An empty store yields
// an empty forest.
func (s *QueryService) GetRootTaskForest(ctx context.Context) ([]*TreeNode, error) {
	topLevel, err := s.Children(ctx, constants.RootTaskID)
	if err != nil {
		return nil, err
	}

	forest := make([]*TreeNode, len(topLevel))
	g, gctx := errgroup.WithContext(ctx)
	for i, task := range topLevel {
		i, task := i, task
		g.Go(func() error {
			descendants, derr := s.repo.GetDescendants(gctx, task.ID)
			if derr != nil {
				return derr
			}
			forest[i] = assembleTree(task, descendants)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug().Int("top_level_tasks", len(forest)).Msg("task forest assembled")
	return forest, nil
}

// ListTasks returns every task in the store except the root, ordered by
// creation time.
func (s *QueryService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return s.repo.GetAll(ctx)
}

// GetTasksByState returns all tasks (root excluded) in the given state.
func (s *QueryService) GetTasksByState(ctx context.Context, state constants.TaskState) ([]domain.Task, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.Task
	for _, task := range all {
		if task.State == state {
			out = append(out, task)
		}
	}
	return out, nil
}

// GetOverdueTasks returns all tasks whose due date is strictly in the past
// and that are not Done, ordered by due date ascending.
func (s *QueryService) GetOverdueTasks(ctx context.Context) ([]domain.Task, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var out []domain.Task
	for _, task := range all {
		if task.IsOverdue(now) {
			out = append(out, task)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(*out[j].DueDate)
	})
	return out, nil
}

// SearchTasks returns all tasks whose text contains the query,
// case-insensitive. An empty query matches nothing.
func (s *QueryService) SearchTasks(ctx context.Context, query string) ([]domain.Task, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var out []domain.Task
	for _, task := range all {
		if strings.Contains(strings.ToLower(task.Text), needle) {
			out = append(out, task)
		}
	}
	return out, nil
}

// ExportTaskYAML serializes the subtree rooted at taskID to YAML.
func (s *QueryService) ExportTaskYAML(ctx context.Context, taskID string) (string, error) {
	root, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return "", err
	}
	descendants, err := s.repo.GetDescendants(ctx, taskID)
	if err != nil {
		return "", err
	}
	return reconcile.Export(root, childrenByParent(descendants))
}

// assembleTree links a flat descendant list into a TreeNode hierarchy
// rooted at root. Children at every level are ordered by creation time.
func assembleTree(root domain.Task, descendants []domain.Task) *TreeNode {
	byParent := childrenByParent(descendants)

	var build func(task domain.Task) *TreeNode
	build = func(task domain.Task) *TreeNode {
		node := &TreeNode{Task: task}
		kids := byParent[task.ID]
		sortByCreation(kids)
		for _, kid := range kids {
			node.Children = append(node.Children, build(kid))
		}
		return node
	}
	return build(root)
}

func childrenByParent(tasks []domain.Task) map[string][]domain.Task {
	byParent := make(map[string][]domain.Task, len(tasks))
	for _, task := range tasks {
		parentID := task.ParentID()
		byParent[parentID] = append(byParent[parentID], task)
	}
	return byParent
}

func sortByCreation(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}
