package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/service"
)

// TaskHandler handles task creation, updates, listings and summaries.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /task.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), domain.NewTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Assignee:    req.Assignee,
		Status:      *req.Status,
		Severity:    *req.Severity,
		Priority:    *req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /task/{id}. Only the fields present in the body
// change.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id := chi.URLParam(r, "id")

	var update domain.TaskUpdate
	if !decodeAndValidate(w, r, &update, log) {
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, update)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter, page, err := parseListQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.taskService.ListTasks(r.Context(), filter, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskPageToResponse(result))
}

// CountOpen handles GET /tasks/open-count.
func (h *TaskHandler) CountOpen(w http.ResponseWriter, r *http.Request) {
	var filter domain.OpenCountFilter
	var err error

	if filter.Assignee, err = queryInt64(r, "assignee"); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if filter.DueDate, err = queryDate(r, "due_date"); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err = filter.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	count, err := h.taskService.CountOpen(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to count open tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, OpenCountResponse{OpenCount: count})
}

// CompletionSummary handles GET /tasks/percentage-complete.
func (h *TaskHandler) CompletionSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.taskService.CompletionSummary(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch task summaries")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CompletionResponse{
		Total: summary.Total,
		Done:  summary.Done,
	})
}

// parseListQuery reads status, assignee, offset and limit. Offset and limit
// default to the first page of DefaultPageLimit rows.
func parseListQuery(r *http.Request) (domain.TaskFilter, domain.PageRequest, error) {
	var filter domain.TaskFilter
	page := domain.DefaultPageRequest()

	status, err := queryInt(r, "status")
	if err != nil {
		return filter, page, err
	}
	if status != nil {
		s := domain.Status(*status)
		filter.Status = &s
	}

	if filter.Assignee, err = queryInt64(r, "assignee"); err != nil {
		return filter, page, err
	}

	offset, err := queryInt(r, "offset")
	if err != nil {
		return filter, page, err
	}
	if offset != nil {
		page.Offset = *offset
	}

	limit, err := queryInt(r, "limit")
	if err != nil {
		return filter, page, err
	}
	if limit != nil {
		page.Limit = *limit
	}

	if err := filter.Validate(); err != nil {
		return filter, page, err
	}
	if err := page.Validate(); err != nil {
		return filter, page, err
	}
	return filter, page, nil
}
