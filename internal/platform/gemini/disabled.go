package gemini

import (
	"context"

	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/generation"
)

// DisabledSuggester is used when no model is configured. Every call fails
// with generation.ErrDisabled.
type DisabledSuggester struct{}

var _ generation.Suggester = DisabledSuggester{}

func (DisabledSuggester) RecommendFields(context.Context, string, string) (*generation.FieldRecommendation, error) {
	return nil, generation.ErrDisabled
}

func (DisabledSuggester) SuggestNextTask(context.Context, []*domain.Task) (string, error) {
	return "", generation.ErrDisabled
}
