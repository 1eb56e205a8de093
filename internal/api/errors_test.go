package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/generation"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"wrapped task not found", fmt.Errorf("update: %w", store.ErrTaskNotFound), http.StatusNotFound},
		{"username exists", store.ErrUsernameExists, http.StatusConflict},
		{"store user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"generic duplicate", fmt.Errorf("create: %w", store.ErrDuplicate), http.StatusConflict},
		{"invalid id", fmt.Errorf("%w: \"abc\" is not a valid task id", domain.ErrInvalidID), http.StatusBadRequest},
		{"validation", domain.ErrEmptyTaskTitle, http.StatusBadRequest},
		{"invalid format", domain.NewValidationError("due_date", "bad", domain.ErrInvalidFormat), http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"login user not found", service.ErrUserNotFound, http.StatusBadRequest},
		{"login incorrect password", service.ErrIncorrectPassword, http.StatusBadRequest},
		{"generation failed", generation.ErrGenerationFailed, http.StatusBadGateway},
		{"invalid model response", generation.ErrInvalidResponse, http.StatusBadGateway},
		{"content blocked", generation.ErrContentBlocked, http.StatusBadGateway},
		{"transient", generation.ErrTransientFailure, http.StatusBadGateway},
		{"disabled", generation.ErrDisabled, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"service error", service.NewServiceError("list_tasks", errors.New("conn reset")), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"expired token", auth.ErrExpiredToken, "Invalid or expired token"},
		{"task not found", store.ErrTaskNotFound, "Task not found"},
		{"username exists", store.ErrUsernameExists, "Username already exists"},
		{"user not found", service.ErrUserNotFound, "User not found"},
		{"store user not found", store.ErrUserNotFound, "Resource not found"},
		{"generic duplicate", store.ErrDuplicate, "Resource already exists"},
		{"incorrect password", service.ErrIncorrectPassword, "Incorrect password"},
		{"invalid id", fmt.Errorf("%w: \"abc\" is not a valid task id", domain.ErrInvalidID), "Invalid task id"},
		{"invalid entity", fmt.Errorf("%w: assignee 99 does not exist", store.ErrInvalidEntity), "Task not valid"},
		{"sentinel validation", domain.ErrEmptyTaskTitle, "task title cannot be empty"},
		{"wrapped validation", fmt.Errorf("update: %w", domain.ErrInvalidStatus), "status must be 0, 1 or 2"},
		{"field validation", domain.NewValidationError("title", "cannot be null", domain.ErrNullField), "title cannot be null"},
		{"disabled", generation.ErrDisabled, "Task suggestions are not configured"},
		{"generation failed", generation.ErrGenerationFailed, "Failed to get a suggestion from the language model"},
		{"unknown", errors.New("pq: password authentication failed for user admin"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	t.Parallel()

	t.Run("default message replaces generic 500", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)

		HandleAPIError(rr, req, errors.New("boom"), "Error retrieving users")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Error retrieving users", decodeError(t, rr).Error)
	})

	t.Run("default message ignored for mapped errors", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/task/abc", nil)

		HandleAPIError(rr, req, store.ErrTaskNotFound, "Failed to update task")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Task not found", decodeError(t, rr).Error)
	})

	t.Run("unauthorized carries challenge", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/task/suggest-new", nil)

		HandleAPIError(rr, req, domain.ErrUnauthorized, "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("not found and conflict log at warn", func(t *testing.T) {
		for _, err := range []error{store.ErrTaskNotFound, store.ErrUsernameExists} {
			ctx, logs := logger.NewTestContext(t)
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/task/abc", nil).WithContext(ctx)

			HandleAPIError(rr, req, err, "")

			entries, parseErr := logs.GetLogEntries()
			require.NoError(t, parseErr)
			require.Len(t, entries, 1)
			assert.Equal(t, slog.LevelWarn.String(), entries[0]["level"], "error %v", err)
		}
	})

	t.Run("validation errors stay at debug", func(t *testing.T) {
		ctx, logs := logger.NewTestContext(t)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/task", nil).WithContext(ctx)

		HandleAPIError(rr, req, domain.ErrEmptyTaskTitle, "")

		entries, parseErr := logs.GetLogEntries()
		require.NoError(t, parseErr)
		require.Len(t, entries, 1)
		assert.Equal(t, slog.LevelDebug.String(), entries[0]["level"])
	})

	t.Run("store details never reach the client", func(t *testing.T) {
		ctx, logs := logger.NewTestContext(t)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil).WithContext(ctx)

		err := service.NewServiceError("list_tasks",
			errors.New(`query failed: SELECT * FROM tasks WHERE id = 1 at postgres://taskr:secret@db:5432/taskr`))
		HandleAPIError(rr, req, err, "Failed to list tasks")

		body := rr.Body.String()
		assert.False(t, strings.Contains(body, "SELECT"))
		assert.False(t, strings.Contains(body, "secret"))
		assert.NotContains(t, logs.String(), "taskr:secret")
	})
}
