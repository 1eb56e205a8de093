package mocks

import (
	"context"

	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/service"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	SignupFn       func(ctx context.Context, username, password string) (*domain.User, error)
	AuthenticateFn func(ctx context.Context, username, password string) (*domain.User, error)
	ListUsersFn    func(ctx context.Context) ([]*domain.User, error)

	// Default return values
	User         *domain.User
	Users        []*domain.User
	DefaultError error
}

var _ service.UserService = (*MockUserService)(nil)

// Signup implements the UserService.Signup method
func (m *MockUserService) Signup(ctx context.Context, username, password string) (*domain.User, error) {
	if m.SignupFn != nil {
		return m.SignupFn(ctx, username, password)
	}
	return m.User, m.DefaultError
}

// Authenticate implements the UserService.Authenticate method
func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, username, password)
	}
	return m.User, m.DefaultError
}

// ListUsers implements the UserService.ListUsers method
func (m *MockUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx)
	}
	return m.Users, m.DefaultError
}
