package mocks

import (
	"context"

	"github.com/phrazzld/taskr-api/internal/generation"
	"github.com/phrazzld/taskr-api/internal/service"
)

// MockSuggestionService implements service.SuggestionService for testing
type MockSuggestionService struct {
	RecommendFieldsFn func(ctx context.Context, title, description string) (*generation.FieldRecommendation, error)
	SuggestNextTaskFn func(ctx context.Context, userID int64) (string, error)

	Recommendation *generation.FieldRecommendation
	Suggestion     string
	DefaultError   error
}

var _ service.SuggestionService = (*MockSuggestionService)(nil)

// RecommendFields implements the SuggestionService.RecommendFields method
func (m *MockSuggestionService) RecommendFields(
	ctx context.Context,
	title, description string,
) (*generation.FieldRecommendation, error) {
	if m.RecommendFieldsFn != nil {
		return m.RecommendFieldsFn(ctx, title, description)
	}
	return m.Recommendation, m.DefaultError
}

// SuggestNextTask implements the SuggestionService.SuggestNextTask method
func (m *MockSuggestionService) SuggestNextTask(ctx context.Context, userID int64) (string, error) {
	if m.SuggestNextTaskFn != nil {
		return m.SuggestNextTaskFn(ctx, userID)
	}
	return m.Suggestion, m.DefaultError
}
