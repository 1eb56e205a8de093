package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is(); the API layer maps them to status codes.
var (
	// ErrUserNotFound indicates that no account exists for the supplied username
	// during login. API layer should map this to HTTP 400 Bad Request.
	ErrUserNotFound = errors.New("user not found")

	// ErrIncorrectPassword indicates that the password did not match the stored hash.
	// API layer should map this to HTTP 400 Bad Request.
	ErrIncorrectPassword = errors.New("incorrect password")
)

// ServiceError wraps an unexpected failure with the operation that produced it.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "update_task")
	Operation string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err with the failing operation. It returns nil for a nil err.
func NewServiceError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Operation: operation, Err: err}
}
