package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/store"
)

// TaskService provides task management and reporting operations.
type TaskService interface {
	// CreateTask validates and stores a new task.
	CreateTask(ctx context.Context, params domain.NewTaskParams) (*domain.Task, error)

	// UpdateTask applies the present fields of update to the task with the
	// given ID. A malformed ID yields domain.ErrInvalidID before any lookup.
	UpdateTask(ctx context.Context, id string, update domain.TaskUpdate) (*domain.Task, error)

	// ListTasks returns one page of tasks.
	ListTasks(ctx context.Context, filter domain.TaskFilter, page domain.PageRequest) (*domain.TaskPage, error)

	// CountOpen counts tasks that are not done.
	CountOpen(ctx context.Context, filter domain.OpenCountFilter) (int, error)

	// CompletionSummary returns the total and done task counts.
	CompletionSummary(ctx context.Context) (*domain.CompletionSummary, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	db        *sql.DB
	logger    *slog.Logger
}

// Ensure taskServiceImpl implements TaskService interface
var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, db *sql.DB, logger *slog.Logger) (TaskService, error) {
	if taskStore == nil {
		return nil, errors.New("taskStore cannot be nil")
	}
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		db:        db,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask builds the task and saves it in a transaction.
func (s *taskServiceImpl) CreateTask(ctx context.Context, params domain.NewTaskParams) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(params)
	if err != nil {
		log.Debug("invalid task", slog.String("error", err.Error()))
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		return nil, s.storeFailure(log, "create_task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()))

	return task, nil
}

// UpdateTask loads, patches, validates and saves the task in one transaction.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id string,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	taskID, err := uuid.Parse(id)
	if err != nil {
		log.Debug("malformed task id", slog.String("task_id", id))
		return nil, fmt.Errorf("%w: %q is not a valid task id", domain.ErrInvalidID, id)
	}

	if err := update.Validate(); err != nil {
		log.Debug("invalid task update",
			slog.String("task_id", id),
			slog.String("error", err.Error()))
		return nil, err
	}

	var updated *domain.Task
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByID(ctx, taskID)
		if err != nil {
			return err
		}

		update.ApplyTo(task)
		if err := task.Validate(); err != nil {
			return err
		}

		if err := txStore.Update(ctx, task); err != nil {
			return err
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, s.storeFailure(log, "update_task", err)
	}

	log.Info("task updated",
		slog.String("task_id", taskID.String()))

	return updated, nil
}

// ListTasks validates the query and delegates to the store.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	filter domain.TaskFilter,
	page domain.PageRequest,
) (*domain.TaskPage, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	result, err := s.taskStore.List(ctx, filter, page)
	if err != nil {
		return nil, s.storeFailure(logger.FromContextOrDefault(ctx, s.logger), "list_tasks", err)
	}
	return result, nil
}

// CountOpen validates the filter and delegates to the store.
func (s *taskServiceImpl) CountOpen(ctx context.Context, filter domain.OpenCountFilter) (int, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	count, err := s.taskStore.CountOpen(ctx, filter)
	if err != nil {
		return 0, s.storeFailure(logger.FromContextOrDefault(ctx, s.logger), "count_open_tasks", err)
	}
	return count, nil
}

// CompletionSummary delegates to the store.
func (s *taskServiceImpl) CompletionSummary(ctx context.Context) (*domain.CompletionSummary, error) {
	summary, err := s.taskStore.CompletionSummary(ctx)
	if err != nil {
		return nil, s.storeFailure(logger.FromContextOrDefault(ctx, s.logger), "completion_summary", err)
	}
	return summary, nil
}

// storeFailure passes expected errors through unchanged and wraps the rest.
func (s *taskServiceImpl) storeFailure(log *slog.Logger, operation string, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrInvalidEntity):
		log.Debug("task operation rejected",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return err
	default:
		log.Error("task operation failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return NewServiceError(operation, err)
	}
}
