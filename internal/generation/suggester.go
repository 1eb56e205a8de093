package generation

import (
	"context"

	"github.com/phrazzld/taskr-api/internal/domain"
)

// FieldRecommendation is a suggested severity and priority for a task, as
// level names ("LOW", "MEDIUM", "HIGH").
type FieldRecommendation struct {
	Severity string `json:"severity"`
	Priority string `json:"priority"`
}

// Validate reports ErrInvalidResponse unless both fields are present.
func (r *FieldRecommendation) Validate() error {
	if r == nil || r.Severity == "" || r.Priority == "" {
		return ErrInvalidResponse
	}
	return nil
}

// Suggester produces task suggestions from a text-completion model.
type Suggester interface {
	// RecommendFields suggests a severity and priority for a task.
	RecommendFields(ctx context.Context, title, description string) (*FieldRecommendation, error)

	// SuggestNextTask drafts a description for a new task, given the user's
	// recent tasks as context.
	SuggestNextTask(ctx context.Context, recent []*domain.Task) (string, error)
}
