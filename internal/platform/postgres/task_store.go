package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db store.DBTX
	// sqlDB is set when the store is not bound to a transaction, so that
	// List can open its own read-only snapshot.
	sqlDB  *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
	if sqlDB, ok := db.(*sql.DB); ok {
		s.sqlDB = sqlDB
	}
	return s
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// nullableDate converts an optional date into a query argument.
func nullableDate(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return *d
}

// nullableInt64 converts an optional id into a query argument.
func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// Create implements store.TaskStore.Create
// Returns validation errors from the domain Task if data is invalid.
// Returns store.ErrInvalidEntity if the assignee does not exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}
	task.CreatedAt = task.CreatedAt.UTC().Truncate(time.Microsecond)

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		nullableInt64(task.Assignee),
		int(task.Status),
		int(task.Severity),
		int(task.Priority),
		nullableDate(task.DueDate),
		task.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
			return fmt.Errorf("%w: assignee %d does not exist",
				store.ErrInvalidEntity, *task.Assignee)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	log.Info("task created successfully", slog.String("task_id", task.ID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}

		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, store.NewStoreError("task", "get", "query failed", MapError(err))
	}

	return task, nil
}

// Update implements store.TaskStore.Update
// It writes every mutable column; the id and creation time never change.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, assignee = $3, status = $4,
			severity = $5, priority = $6, due_date = $7
		WHERE id = $8
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		nullableInt64(task.Assignee),
		int(task.Status),
		int(task.Severity),
		int(task.Priority),
		nullableDate(task.DueDate),
		task.ID,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task update",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
			return fmt.Errorf("%w: assignee %d does not exist",
				store.ErrInvalidEntity, *task.Assignee)
		}

		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "update", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task update matched no rows", slog.String("task_id", task.ID.String()))
		return err
	}

	log.Info("task updated successfully", slog.String("task_id", task.ID.String()))
	return nil
}

// List implements store.TaskStore.List
// The count and the page are read inside one read-only transaction unless
// the store is already bound to a transaction.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	filter domain.TaskFilter,
	page domain.PageRequest,
) (*domain.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	q := newListQuery(filter)

	var result *domain.TaskPage
	read := func(ctx context.Context, db store.DBTX) error {
		var total int
		if err := db.QueryRowContext(ctx, q.countSQL(), q.args...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count tasks: %w", err)
		}

		pageQuery, args := q.pageSQL(page)
		tasks, err := queryTaskViews(ctx, db, pageQuery, args)
		if err != nil {
			return err
		}

		result = &domain.TaskPage{
			Tasks:      tasks,
			Pagination: domain.NewPagination(page.Offset, page.Limit, total),
		}
		return nil
	}

	var err error
	if s.sqlDB != nil {
		err = store.RunInReadOnlyTransaction(ctx, s.sqlDB, func(ctx context.Context, tx *sql.Tx) error {
			return read(ctx, tx)
		})
	} else {
		err = read(ctx, s.db)
	}
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "query failed", MapError(err))
	}

	log.Debug("listed tasks",
		slog.Int("total", result.Pagination.Total),
		slog.Int("returned", len(result.Tasks)),
		slog.Int("offset", page.Offset),
		slog.Int("limit", page.Limit))
	return result, nil
}

// CountOpen implements store.TaskStore.CountOpen
func (s *PostgresTaskStore) CountOpen(ctx context.Context, filter domain.OpenCountFilter) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	q := newOpenCountQuery(filter)

	var count int
	if err := s.db.QueryRowContext(ctx, q.countSQL(), q.args...).Scan(&count); err != nil {
		log.Error("failed to count open tasks", slog.String("error", err.Error()))
		return 0, store.NewStoreError("task", "count", "query failed", MapError(err))
	}

	return count, nil
}

// CompletionSummary implements store.TaskStore.CompletionSummary
func (s *PostgresTaskStore) CompletionSummary(ctx context.Context) (*domain.CompletionSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = %d)
		FROM tasks
	`, int(domain.StatusDone))

	var summary domain.CompletionSummary
	if err := s.db.QueryRowContext(ctx, query).Scan(&summary.Total, &summary.Done); err != nil {
		log.Error("failed to read completion summary", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "summary", "query failed", MapError(err))
	}

	return &summary, nil
}

// RecentByAssignee implements store.TaskStore.RecentByAssignee
func (s *PostgresTaskStore) RecentByAssignee(ctx context.Context, userID int64, n int) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if n <= 0 {
		return []*domain.Task{}, nil
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE assignee = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, n)
	if err != nil {
		log.Error("failed to query recent tasks",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, store.NewStoreError("task", "recent", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0, n)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "recent", "scan failed", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "recent", "row iteration failed", err)
	}

	return tasks, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads a row selected with taskColumns.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task     domain.Task
		assignee sql.NullInt64
		dueDate  sql.Null[domain.Date]
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&assignee,
		&task.Status,
		&task.Severity,
		&task.Priority,
		&dueDate,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignee.Valid {
		id := assignee.Int64
		task.Assignee = &id
	}
	if dueDate.Valid {
		d := dueDate.V
		task.DueDate = &d
	}
	return &task, nil
}

// queryTaskViews runs a listing query selected with taskViewColumns.
func queryTaskViews(ctx context.Context, db store.DBTX, query string, args []any) ([]domain.TaskView, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.TaskView, 0)
	for rows.Next() {
		var (
			view    domain.TaskView
			dueDate sql.Null[domain.Date]
		)
		if err := rows.Scan(
			&view.ID,
			&view.Title,
			&view.Description,
			&view.AssigneeName,
			&view.Status,
			&view.Severity,
			&view.Priority,
			&dueDate,
			&view.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if dueDate.Valid {
			d := dueDate.V
			view.DueDate = &d
		}
		tasks = append(tasks, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}
