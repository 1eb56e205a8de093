package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
)

// TaskStore defines the interface for task persistence and the task queries.
type TaskStore interface {
	// Create saves a new task.
	// Returns a wrapped domain.ErrValidation if the task is invalid, and
	// ErrInvalidEntity if the assignee does not reference an existing user.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update writes every mutable column of task.
	// Returns ErrTaskNotFound if no row matched and ErrInvalidEntity on a
	// constraint violation.
	Update(ctx context.Context, task *domain.Task) error

	// List returns one page of tasks matching filter, ordered by due date
	// (nulls last), then priority descending. The total and the page are read
	// from the same snapshot.
	List(ctx context.Context, filter domain.TaskFilter, page domain.PageRequest) (*domain.TaskPage, error)

	// CountOpen counts tasks that are not done, optionally narrowed by
	// assignee and exact due date.
	CountOpen(ctx context.Context, filter domain.OpenCountFilter) (int, error)

	// CompletionSummary returns the total number of tasks and the number done.
	CompletionSummary(ctx context.Context) (*domain.CompletionSummary, error)

	// RecentByAssignee returns up to n tasks assigned to userID, newest first.
	RecentByAssignee(ctx context.Context, userID int64, n int) ([]*domain.Task, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
