package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/generation"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/store"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors. Failed logins are 400, not 401.
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrIncorrectPassword):
		return http.StatusBadRequest

	// Text-completion backend
	case generation.IsUpstreamError(err):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. Validation messages are passed through because
// they describe the caller's own input.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return unexpectedErrorMessage
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid or expired token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Not authenticated"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	case store.IsDuplicateError(err):
		return "Resource already exists"

	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, service.ErrIncorrectPassword):
		return "Incorrect password"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid task id"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Task not valid"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat):
		if msg := validationMessage(err); msg != "" {
			return msg
		}
		return "Validation error"

	case errors.Is(err, generation.ErrDisabled):
		return "Task suggestions are not configured"

	case errors.Is(err, generation.ErrContentBlocked):
		return "The suggestion was blocked by content filters"

	case generation.IsUpstreamError(err):
		return "Failed to get a suggestion from the language model"

	default:
		return unexpectedErrorMessage
	}
}

// validationMessage finds the innermost domain error in err's chain and
// returns its text without the sentinel prefix, e.g. "task title cannot be
// empty".
func validationMessage(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if ve, ok := e.(*domain.ValidationError); ok {
			return ve.Error()
		}

		inner := errors.Unwrap(e)
		if inner == domain.ErrValidation || inner == domain.ErrInvalidFormat {
			return strings.TrimPrefix(e.Error(), inner.Error()+": ")
		}
	}
	return ""
}

// HandleAPIError maps err to a status code and safe message and writes the
// error response. defaultMsg replaces the generic message on 500s. Not-found
// and conflict responses are logged at WARN.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}

	var opts []shared.ResponseOption
	switch status {
	case http.StatusUnauthorized:
		opts = append(opts, shared.WithHeader("WWW-Authenticate", "Bearer"))
	case http.StatusNotFound, http.StatusConflict:
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
