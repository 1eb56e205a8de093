package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/taskr-api/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing
type MockTokenService struct {
	// IssueTokenFn allows test cases to mock the IssueToken behavior
	IssueTokenFn func(ctx context.Context, subject auth.Subject) (*auth.Token, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	ExpiresAt   time.Time
	Err         error
	ValidateErr error
	Claims      *auth.Claims
}

var _ auth.TokenService = (*MockTokenService)(nil)

// IssueToken implements the auth.TokenService interface
func (m *MockTokenService) IssueToken(ctx context.Context, subject auth.Subject) (*auth.Token, error) {
	if m.IssueTokenFn != nil {
		return m.IssueTokenFn(ctx, subject)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &auth.Token{
		AccessToken: m.Token,
		TokenType:   auth.TokenType,
		ExpiresAt:   m.ExpiresAt,
	}, nil
}

// ValidateToken implements the auth.TokenService interface
func (m *MockTokenService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// ExtractUserID implements the auth.TokenService interface on top of ValidateToken
func (m *MockTokenService) ExtractUserID(ctx context.Context, tokenString string) (int64, error) {
	claims, err := m.ValidateToken(ctx, tokenString)
	if err != nil {
		return 0, err
	}
	return claims.Subject.UserID, nil
}
