package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/taskr-api/internal/generation"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/store"
)

// RecentTaskContext is the number of recent tasks given to the model when
// suggesting a new one.
const RecentTaskContext = 5

// SuggestionService produces AI-generated task suggestions.
type SuggestionService interface {
	// RecommendFields suggests a severity and priority for a draft task.
	RecommendFields(ctx context.Context, title, description string) (*generation.FieldRecommendation, error)

	// SuggestNextTask drafts a new task description for the user, based on
	// the tasks most recently assigned to them.
	SuggestNextTask(ctx context.Context, userID int64) (string, error)
}

type suggestionServiceImpl struct {
	taskStore store.TaskStore
	suggester generation.Suggester
	logger    *slog.Logger
}

var _ SuggestionService = (*suggestionServiceImpl)(nil)

// NewSuggestionService creates a new SuggestionService.
func NewSuggestionService(
	taskStore store.TaskStore,
	suggester generation.Suggester,
	logger *slog.Logger,
) (SuggestionService, error) {
	if taskStore == nil {
		return nil, errors.New("taskStore cannot be nil")
	}
	if suggester == nil {
		return nil, errors.New("suggester cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &suggestionServiceImpl{
		taskStore: taskStore,
		suggester: suggester,
		logger:    logger.With(slog.String("component", "suggestion_service")),
	}, nil
}

func (s *suggestionServiceImpl) RecommendFields(
	ctx context.Context,
	title, description string,
) (*generation.FieldRecommendation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rec, err := s.suggester.RecommendFields(ctx, title, description)
	if err != nil {
		log.Warn("field recommendation failed", slog.String("error", err.Error()))
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		log.Warn("field recommendation incomplete", slog.Any("recommendation", rec))
		return nil, err
	}
	return rec, nil
}

func (s *suggestionServiceImpl) SuggestNextTask(ctx context.Context, userID int64) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	recent, err := s.taskStore.RecentByAssignee(ctx, userID, RecentTaskContext)
	if err != nil {
		log.Error("failed to load recent tasks",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return "", NewServiceError("suggest_next_task", err)
	}

	description, err := s.suggester.SuggestNextTask(ctx, recent)
	if err != nil {
		log.Warn("next task suggestion failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return "", err
	}
	if description == "" {
		return "", generation.ErrInvalidResponse
	}

	log.Debug("next task suggested",
		slog.Int64("user_id", userID),
		slog.Int("context_tasks", len(recent)))

	return description, nil
}
