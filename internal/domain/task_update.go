package domain

import (
	"fmt"
	"strings"
)

// AssigneeUnassigned is the assignee value that means "no assignee", both in
// updates (clear the assignee) and in filters (match unassigned tasks).
const AssigneeUnassigned int64 = -1

// ErrNullField is returned when an update sets a non-nullable field to null.
var ErrNullField = fmt.Errorf("%w: field cannot be null", ErrValidation)

// TaskUpdate is a partial task payload. Only fields whose Set flag is true are
// applied.
type TaskUpdate struct {
	Title       Optional[string]   `json:"title"`
	Description Optional[string]   `json:"description"`
	Assignee    Optional[int64]    `json:"assignee"`
	Status      Optional[Status]   `json:"status"`
	Severity    Optional[Severity] `json:"severity"`
	Priority    Optional[Priority] `json:"priority"`
	DueDate     Optional[*Date]    `json:"due_date"`
}

// IsEmpty reports whether no field is present.
func (u TaskUpdate) IsEmpty() bool {
	return !u.Title.Set && !u.Description.Set && !u.Assignee.Set &&
		!u.Status.Set && !u.Severity.Set && !u.Priority.Set && !u.DueDate.Set
}

// Validate checks every present field. An explicitly empty title or
// description is rejected rather than ignored.
func (u TaskUpdate) Validate() error {
	nullable := []struct {
		name string
		null bool
	}{
		{"title", u.Title.Null},
		{"description", u.Description.Null},
		{"status", u.Status.Null},
		{"severity", u.Severity.Null},
		{"priority", u.Priority.Null},
	}
	for _, f := range nullable {
		if f.null {
			return NewValidationError(f.name, "cannot be null", ErrNullField)
		}
	}

	if u.Title.Set && strings.TrimSpace(u.Title.Value) == "" {
		return ErrEmptyTaskTitle
	}
	if u.Description.Set && strings.TrimSpace(u.Description.Value) == "" {
		return ErrEmptyTaskDescription
	}
	if u.Assignee.Set && !u.Assignee.Null &&
		u.Assignee.Value != AssigneeUnassigned && u.Assignee.Value <= 0 {
		return ErrInvalidAssignee
	}
	if u.Status.Set && !u.Status.Value.Valid() {
		return ErrInvalidStatus
	}
	if u.Severity.Set && !u.Severity.Value.Valid() {
		return ErrInvalidSeverity
	}
	if u.Priority.Set && !u.Priority.Value.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// ApplyTo copies the present fields onto t. Fields that are absent leave the
// task untouched. It does not validate; call Validate first.
func (u TaskUpdate) ApplyTo(t *Task) {
	if u.Title.Set {
		t.Title = u.Title.Value
	}
	if u.Description.Set {
		t.Description = u.Description.Value
	}
	if u.Assignee.Set {
		if u.Assignee.Null || u.Assignee.Value == AssigneeUnassigned {
			t.Assignee = nil
		} else {
			id := u.Assignee.Value
			t.Assignee = &id
		}
	}
	if u.Status.Set {
		t.Status = u.Status.Value
	}
	if u.Severity.Set {
		t.Severity = u.Severity.Value
	}
	if u.Priority.Set {
		t.Priority = u.Priority.Value
	}
	if u.DueDate.Set {
		if u.DueDate.Null || u.DueDate.Value == nil {
			t.DueDate = nil
		} else {
			d := *u.DueDate.Value
			t.DueDate = &d
		}
	}
}
