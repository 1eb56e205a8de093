package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phrazzld/taskr-api/internal/domain"
)

// Column list and ordering shared by every listing. The trailing created_at
// and id keys make the order total so that pages never overlap.
const (
	taskViewColumns = `t.id, t.title, t.description, COALESCE(u.username, '` + domain.UnassignedName + `'),
		t.status, t.severity, t.priority, t.due_date, t.created_at`

	taskViewFrom = `FROM tasks t LEFT OUTER JOIN users u ON u.id = t.assignee`

	taskListOrder = `ORDER BY t.due_date ASC NULLS LAST, t.priority DESC, t.created_at ASC, t.id ASC`

	taskColumns = `id, title, description, assignee, status, severity, priority, due_date, created_at`
)

// taskQuery accumulates WHERE conditions and their positional arguments.
type taskQuery struct {
	conditions []string
	args       []any
}

// arg appends v to the argument list and returns its placeholder.
func (q *taskQuery) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *taskQuery) where(cond string) {
	q.conditions = append(q.conditions, cond)
}

func (q *taskQuery) whereSQL() string {
	if len(q.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(q.conditions, " AND ")
}

// whereAssignee adds the assignee condition, mapping the unassigned sentinel
// to IS NULL.
func (q *taskQuery) whereAssignee(assignee *int64) {
	if assignee == nil {
		return
	}
	if *assignee == domain.AssigneeUnassigned {
		q.where("t.assignee IS NULL")
		return
	}
	q.where("t.assignee = " + q.arg(*assignee))
}

// whereOpen restricts to tasks that are not done.
func (q *taskQuery) whereOpen() {
	q.where(fmt.Sprintf("t.status <> %d", int(domain.StatusDone)))
}

// newListQuery builds the filter of a task listing. Without an explicit
// status, done tasks are excluded.
func newListQuery(filter domain.TaskFilter) *taskQuery {
	q := &taskQuery{}
	if filter.Status == nil {
		q.whereOpen()
	} else {
		q.where("t.status = " + q.arg(int(*filter.Status)))
	}
	q.whereAssignee(filter.Assignee)
	return q
}

// newOpenCountQuery builds the filter of the open-task count.
func newOpenCountQuery(filter domain.OpenCountFilter) *taskQuery {
	q := &taskQuery{}
	q.whereOpen()
	q.whereAssignee(filter.Assignee)
	if filter.DueDate != nil {
		q.where("t.due_date = " + q.arg(*filter.DueDate))
	}
	return q
}

// countSQL counts every row matching the filter. It deliberately skips the
// join so the count cannot diverge from the page on join misses.
func (q *taskQuery) countSQL() string {
	return strings.TrimSpace("SELECT COUNT(*) FROM tasks t " + q.whereSQL())
}

// pageSQL returns the windowed listing and its arguments. The receiver's
// arguments are not modified.
func (q *taskQuery) pageSQL(page domain.PageRequest) (string, []any) {
	pq := &taskQuery{
		conditions: q.conditions,
		args:       append([]any(nil), q.args...),
	}
	limit := pq.arg(page.Limit)
	offset := pq.arg(page.Offset)

	parts := []string{"SELECT", taskViewColumns, taskViewFrom}
	if where := pq.whereSQL(); where != "" {
		parts = append(parts, where)
	}
	parts = append(parts, taskListOrder, "LIMIT "+limit, "OFFSET "+offset)

	return strings.Join(parts, " "), pq.args
}
