package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskr-api/internal/api/middleware"
	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/service"
)

// SuggestionHandler exposes the language-model backed endpoints.
type SuggestionHandler struct {
	suggestionService service.SuggestionService
	logger            *slog.Logger
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(suggestionService service.SuggestionService, logger *slog.Logger) *SuggestionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SuggestionHandler{
		suggestionService: suggestionService,
		logger:            logger.With(slog.String("component", "suggestion_handler")),
	}
}

// RecommendFields handles POST /task/recommend-fields.
func (h *SuggestionHandler) RecommendFields(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RecommendFieldsRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	rec, err := h.suggestionService.RecommendFields(r.Context(), req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to recommend fields")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RecommendFieldsResponse{
		Severity: rec.Severity,
		Priority: rec.Priority,
	})
}

// SuggestNewTask handles POST /task/suggest-new for the calling user.
func (h *SuggestionHandler) SuggestNewTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	subject, ok := middleware.GetSubject(r)
	if !ok {
		log.Warn("subject not found in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	description, err := h.suggestionService.SuggestNextTask(r.Context(), subject.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to suggest a task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SuggestTaskResponse{NewTaskDescription: description})
}
