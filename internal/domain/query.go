package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Paging defaults and bounds.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// UnassignedName is shown in list rows for tasks without an assignee.
const UnassignedName = "Unassigned"

// Query validation errors
var (
	ErrInvalidOffset = fmt.Errorf("%w: offset must be zero or greater", ErrValidation)
	ErrInvalidLimit  = fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, MaxPageLimit)
)

// TaskFilter narrows a task listing. A nil Status means "every status except
// done". An Assignee of AssigneeUnassigned matches unassigned tasks.
type TaskFilter struct {
	Status   *Status
	Assignee *int64
}

// Validate checks the filter values.
func (f TaskFilter) Validate() error {
	if f.Status != nil && !f.Status.Valid() {
		return ErrInvalidStatus
	}
	if f.Assignee != nil && *f.Assignee != AssigneeUnassigned && *f.Assignee <= 0 {
		return ErrInvalidAssignee
	}
	return nil
}

// PageRequest is a pagination window.
type PageRequest struct {
	Offset int
	Limit  int
}

// DefaultPageRequest returns the first page with the default limit.
func DefaultPageRequest() PageRequest {
	return PageRequest{Offset: 0, Limit: DefaultPageLimit}
}

// Validate checks the window bounds.
func (p PageRequest) Validate() error {
	if p.Offset < 0 {
		return ErrInvalidOffset
	}
	if p.Limit < 1 || p.Limit > MaxPageLimit {
		return ErrInvalidLimit
	}
	return nil
}

// TaskView is a task as shown in listings, with the assignee resolved to a
// username.
type TaskView struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	AssigneeName string    `json:"assignee_name"`
	Status       Status    `json:"status"`
	Severity     Severity  `json:"severity"`
	Priority     Priority  `json:"priority"`
	DueDate      *Date     `json:"due_date"`
	CreatedAt    time.Time `json:"created_date"`
}

// Pagination describes the window that produced a TaskPage.
type Pagination struct {
	Total  int  `json:"total"`
	More   bool `json:"more"`
	Offset int  `json:"offset"`
	Limit  int  `json:"limit"`
}

// NewPagination computes More from the requested window, not from the number
// of rows returned.
func NewPagination(offset, limit, total int) Pagination {
	return Pagination{
		Total:  total,
		More:   offset+limit < total,
		Offset: offset,
		Limit:  limit,
	}
}

// TaskPage is one window of a filtered listing.
type TaskPage struct {
	Tasks      []TaskView `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}

// OpenCountFilter narrows the open-task count.
type OpenCountFilter struct {
	Assignee *int64
	DueDate  *Date
}

// Validate applies the same assignee rule as TaskFilter.
func (f OpenCountFilter) Validate() error {
	return TaskFilter{Assignee: f.Assignee}.Validate()
}

// CompletionSummary holds the unfiltered totals behind the completion
// percentage.
type CompletionSummary struct {
	Total int `json:"total"`
	Done  int `json:"done"`
}
