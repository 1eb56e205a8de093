package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TaskStore is a mock of store.TaskStore interface for use with testify/mock
type TaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create is a mock implementation of store.TaskStore.Create
func (m *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// GetByID is a mock implementation of store.TaskStore.GetByID
func (m *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.TaskStore.Update
func (m *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// List is a mock implementation of store.TaskStore.List
func (m *TaskStore) List(
	ctx context.Context,
	filter domain.TaskFilter,
	page domain.PageRequest,
) (*domain.TaskPage, error) {
	args := m.Called(ctx, filter, page)
	if result, ok := args.Get(0).(*domain.TaskPage); ok {
		return result, args.Error(1)
	}
	return nil, args.Error(1)
}

// CountOpen is a mock implementation of store.TaskStore.CountOpen
func (m *TaskStore) CountOpen(ctx context.Context, filter domain.OpenCountFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

// CompletionSummary is a mock implementation of store.TaskStore.CompletionSummary
func (m *TaskStore) CompletionSummary(ctx context.Context) (*domain.CompletionSummary, error) {
	args := m.Called(ctx)
	if summary, ok := args.Get(0).(*domain.CompletionSummary); ok {
		return summary, args.Error(1)
	}
	return nil, args.Error(1)
}

// RecentByAssignee is a mock implementation of store.TaskStore.RecentByAssignee
func (m *TaskStore) RecentByAssignee(ctx context.Context, userID int64, n int) ([]*domain.Task, error) {
	args := m.Called(ctx, userID, n)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx is a mock implementation of store.TaskStore.WithTx. The mock has no
// transactional behavior and returns itself.
func (m *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
