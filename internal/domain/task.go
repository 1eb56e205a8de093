package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the workflow state of a task.
type Status int

const (
	StatusNotStarted Status = 0
	StatusInProgress Status = 1
	StatusDone       Status = 2
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s >= StatusNotStarted && s <= StatusDone
}

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "NOT_STARTED"
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusDone:
		return "DONE"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Severity describes how bad the problem behind a task is.
type Severity int

const (
	SeverityLow    Severity = 0
	SeverityMedium Severity = 1
	SeverityHigh   Severity = 2
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s >= SeverityLow && s <= SeverityHigh
}

func (s Severity) String() string {
	return levelName(int(s), "Severity")
}

// Priority orders tasks that share a due date; higher comes first.
type Priority int

const (
	PriorityLow    Priority = 0
	PriorityMedium Priority = 1
	PriorityHigh   Priority = 2
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	return levelName(int(p), "Priority")
}

func levelName(v int, kind string) string {
	switch v {
	case 0:
		return "LOW"
	case 1:
		return "MEDIUM"
	case 2:
		return "HIGH"
	default:
		return fmt.Sprintf("%s(%d)", kind, v)
	}
}

// ParseLevel converts "LOW", "MEDIUM" or "HIGH" (case-insensitive) into its
// numeric value. It is shared by Severity and Priority.
func ParseLevel(s string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return 0, nil
	case "MEDIUM":
		return 1, nil
	case "HIGH":
		return 2, nil
	default:
		return 0, fmt.Errorf("%w: unknown level %q", ErrInvalidFormat, s)
	}
}

// Task validation errors
var (
	ErrEmptyTaskID          = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTaskTitle       = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrEmptyTaskDescription = fmt.Errorf("%w: task description cannot be empty", ErrValidation)
	ErrInvalidStatus        = fmt.Errorf("%w: status must be 0, 1 or 2", ErrValidation)
	ErrInvalidSeverity      = fmt.Errorf("%w: severity must be 0, 1 or 2", ErrValidation)
	ErrInvalidPriority      = fmt.Errorf("%w: priority must be 0, 1 or 2", ErrValidation)
	ErrInvalidAssignee      = fmt.Errorf("%w: assignee must be a positive user ID", ErrValidation)
)

// Task is a unit of work, optionally assigned to a user.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Assignee    *int64    `json:"assignee"`
	Status      Status    `json:"status"`
	Severity    Severity  `json:"severity"`
	Priority    Priority  `json:"priority"`
	DueDate     *Date     `json:"due_date"`
	CreatedAt   time.Time `json:"created_date"`
}

// NewTaskParams carries the caller-supplied fields of a new task.
type NewTaskParams struct {
	Title       string
	Description string
	Assignee    *int64
	Status      Status
	Severity    Severity
	Priority    Priority
	DueDate     *Date
}

// NewTask creates a validated Task with a fresh ID and creation time. The
// creation time is cut to microseconds, the resolution of TIMESTAMPTZ.
func NewTask(p NewTaskParams) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Title:       p.Title,
		Description: p.Description,
		Assignee:    p.Assignee,
		Status:      p.Status,
		Severity:    p.Severity,
		Priority:    p.Priority,
		DueDate:     p.DueDate,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the task's invariants.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyTaskDescription
	}
	if t.Assignee != nil && *t.Assignee <= 0 {
		return ErrInvalidAssignee
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if !t.Severity.Valid() {
		return ErrInvalidSeverity
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// IsOpen reports whether the task still needs work.
func (t *Task) IsOpen() bool {
	return t.Status != StatusDone
}
