package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/generation"
)

// MockSuggester implements generation.Suggester for testing
type MockSuggester struct {
	RecommendFieldsFn func(ctx context.Context, title, description string) (*generation.FieldRecommendation, error)
	SuggestNextTaskFn func(ctx context.Context, recent []*domain.Task) (string, error)

	// Default response values
	Recommendation *generation.FieldRecommendation
	Suggestion     string
	Err            error

	// Call tracking for verification
	mu                sync.Mutex
	RecommendCalls    int
	SuggestCalls      int
	LastRecentContext []*domain.Task
}

var _ generation.Suggester = (*MockSuggester)(nil)

// NewMockSuggesterWithError creates a MockSuggester that fails every call with err
func NewMockSuggesterWithError(err error) *MockSuggester {
	return &MockSuggester{Err: err}
}

// RecommendFields implements the generation.Suggester interface
func (m *MockSuggester) RecommendFields(
	ctx context.Context,
	title, description string,
) (*generation.FieldRecommendation, error) {
	m.mu.Lock()
	m.RecommendCalls++
	m.mu.Unlock()

	if m.RecommendFieldsFn != nil {
		return m.RecommendFieldsFn(ctx, title, description)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Recommendation, nil
}

// SuggestNextTask implements the generation.Suggester interface
func (m *MockSuggester) SuggestNextTask(ctx context.Context, recent []*domain.Task) (string, error) {
	m.mu.Lock()
	m.SuggestCalls++
	m.LastRecentContext = recent
	m.mu.Unlock()

	if m.SuggestNextTaskFn != nil {
		return m.SuggestNextTaskFn(ctx, recent)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Suggestion, nil
}
