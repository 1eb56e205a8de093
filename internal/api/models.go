package api

import (
	"strings"
	"time"

	"github.com/phrazzld/taskr-api/internal/domain"
)

// SignupRequest defines the payload for the signup endpoint.
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

// UserSummary is the public view of an account.
type UserSummary struct {
	Username string `json:"username"`
	ID       int64  `json:"id"`
}

// SignupResponse defines the successful response for the signup endpoint.
type SignupResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	// AccessToken is the JWT to send as "Authorization: Bearer <token>"
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`

	// ExpiresAt is the RFC 3339 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// UserResponse is one entry of the user listing.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// CreateTaskRequest defines the payload for creating a task. Status,
// severity and priority are required; 0 is a valid value for each.
type CreateTaskRequest struct {
	Title       string           `json:"title"       validate:"required"`
	Description string           `json:"description" validate:"required"`
	Assignee    *int64           `json:"assignee"    validate:"omitempty,gt=0"`
	Status      *domain.Status   `json:"status"      validate:"required"`
	Severity    *domain.Severity `json:"severity"    validate:"required"`
	Priority    *domain.Priority `json:"priority"    validate:"required"`
	DueDate     *domain.Date     `json:"due_date"`
}

// TaskResponse is a stored task.
type TaskResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Assignee    *int64          `json:"assignee"`
	Status      domain.Status   `json:"status"`
	Severity    domain.Severity `json:"severity"`
	Priority    domain.Priority `json:"priority"`
	DueDate     *domain.Date    `json:"due_date"`
	CreatedAt   time.Time       `json:"created_date"`
}

// TaskListItem is a task as shown in listings.
type TaskListItem struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	AssigneeName string          `json:"assignee_name"`
	Status       domain.Status   `json:"status"`
	Severity     domain.Severity `json:"severity"`
	Priority     domain.Priority `json:"priority"`
	DueDate      *domain.Date    `json:"due_date"`
	CreatedAt    time.Time       `json:"created_date"`
}

// TaskListResponse is one page of the task listing.
type TaskListResponse struct {
	Tasks      []TaskListItem    `json:"tasks"`
	Pagination domain.Pagination `json:"pagination"`
}

// OpenCountResponse holds the number of open tasks.
type OpenCountResponse struct {
	OpenCount int `json:"open_count"`
}

// CompletionResponse holds the totals behind the completion percentage.
type CompletionResponse struct {
	Total int `json:"total"`
	Done  int `json:"done"`
}

// RecommendFieldsRequest defines the payload for field recommendations.
type RecommendFieldsRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Validate rejects missing or whitespace-only fields.
func (r RecommendFieldsRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return domain.NewValidationError("title", "cannot be empty", domain.ErrValidation)
	}
	if strings.TrimSpace(r.Description) == "" {
		return domain.NewValidationError("description", "cannot be empty", domain.ErrValidation)
	}
	return nil
}

// RecommendFieldsResponse holds the suggested level names.
type RecommendFieldsResponse struct {
	Severity string `json:"severity"`
	Priority string `json:"priority"`
}

// SuggestTaskResponse holds a generated task description.
type SuggestTaskResponse struct {
	NewTaskDescription string `json:"newTaskDescription"`
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Assignee:    t.Assignee,
		Status:      t.Status,
		Severity:    t.Severity,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
	}
}

func taskPageToResponse(page *domain.TaskPage) TaskListResponse {
	items := make([]TaskListItem, 0, len(page.Tasks))
	for _, v := range page.Tasks {
		items = append(items, TaskListItem{
			ID:           v.ID.String(),
			Title:        v.Title,
			Description:  v.Description,
			AssigneeName: v.AssigneeName,
			Status:       v.Status,
			Severity:     v.Severity,
			Priority:     v.Priority,
			DueDate:      v.DueDate,
			CreatedAt:    v.CreatedAt,
		})
	}
	return TaskListResponse{Tasks: items, Pagination: page.Pagination}
}

func usersToResponse(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserResponse{ID: u.ID, Username: u.Username})
	}
	return out
}
