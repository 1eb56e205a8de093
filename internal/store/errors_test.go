package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "wrapped ErrUserNotFound", err: fmt.Errorf("failed to find user: %w", ErrUserNotFound), expected: true},
		{name: "ErrTaskNotFound", err: ErrTaskNotFound, expected: true},
		{name: "StoreError wrapping ErrTaskNotFound", err: NewStoreError("task", "get", "lookup failed", ErrTaskNotFound), expected: true},
		{name: "ErrUsernameExists", err: ErrUsernameExists, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: true},
		{name: "wrapped ErrUsernameExists", err: fmt.Errorf("signup: %w", ErrUsernameExists), expected: true},
		{name: "ErrUserNotFound", err: ErrUserNotFound, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDuplicateError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		err := NewStoreError("task", "update", "constraint violated", ErrInvalidEntity)
		assert.Equal(t, "update operation on task failed: constraint violated: invalid entity", err.Error())
		assert.ErrorIs(t, err, ErrInvalidEntity)

		var storeErr *StoreError
		assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &storeErr))
		assert.Equal(t, "task", storeErr.Entity)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("user", "create", "no rows", nil)
		assert.Equal(t, "create operation on user failed: no rows", err.Error())
		assert.Nil(t, err.Unwrap())
	})
}
