package mocks

import (
	"context"

	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/service"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	CreateTaskFn        func(ctx context.Context, params domain.NewTaskParams) (*domain.Task, error)
	UpdateTaskFn        func(ctx context.Context, id string, update domain.TaskUpdate) (*domain.Task, error)
	ListTasksFn         func(ctx context.Context, filter domain.TaskFilter, page domain.PageRequest) (*domain.TaskPage, error)
	CountOpenFn         func(ctx context.Context, filter domain.OpenCountFilter) (int, error)
	CompletionSummaryFn func(ctx context.Context) (*domain.CompletionSummary, error)

	// Default return values
	Task         *domain.Task
	Page         *domain.TaskPage
	OpenCount    int
	Summary      *domain.CompletionSummary
	DefaultError error
}

var _ service.TaskService = (*MockTaskService)(nil)

// CreateTask implements the TaskService.CreateTask method
func (m *MockTaskService) CreateTask(ctx context.Context, params domain.NewTaskParams) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, params)
	}
	return m.Task, m.DefaultError
}

// UpdateTask implements the TaskService.UpdateTask method
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	id string,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, id, update)
	}
	return m.Task, m.DefaultError
}

// ListTasks implements the TaskService.ListTasks method
func (m *MockTaskService) ListTasks(
	ctx context.Context,
	filter domain.TaskFilter,
	page domain.PageRequest,
) (*domain.TaskPage, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, filter, page)
	}
	return m.Page, m.DefaultError
}

// CountOpen implements the TaskService.CountOpen method
func (m *MockTaskService) CountOpen(ctx context.Context, filter domain.OpenCountFilter) (int, error) {
	if m.CountOpenFn != nil {
		return m.CountOpenFn(ctx, filter)
	}
	return m.OpenCount, m.DefaultError
}

// CompletionSummary implements the TaskService.CompletionSummary method
func (m *MockTaskService) CompletionSummary(ctx context.Context) (*domain.CompletionSummary, error) {
	if m.CompletionSummaryFn != nil {
		return m.CompletionSummaryFn(ctx)
	}
	return m.Summary, m.DefaultError
}
