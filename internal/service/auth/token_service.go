package auth

import (
	"context"
	"time"
)

// TokenType is the token_type value returned alongside access tokens.
const TokenType = "bearer"

// TokenService issues and validates signed, time-limited session tokens.
// Tokens are stateless: validity depends only on the signature and expiry.
type TokenService interface {
	// IssueToken creates a signed access token whose subject identifies the user.
	IssueToken(ctx context.Context, subject Subject) (*Token, error)

	// ValidateToken verifies the token's algorithm, signature and expiry and
	// returns its claims. Returns ErrExpiredToken for an expired token and
	// ErrInvalidToken for anything else that fails verification.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// ExtractUserID returns the user ID of a token. It goes through
	// ValidateToken, so an unverified token never yields an identity.
	ExtractUserID(ctx context.Context, tokenString string) (int64, error)
}

// Subject is the identity embedded in a token.
type Subject struct {
	Username string `json:"username"`
	UserID   int64  `json:"id"`
}

// Token is a freshly issued access token.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Claims are the verified contents of a token.
type Claims struct {
	Subject   Subject
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
