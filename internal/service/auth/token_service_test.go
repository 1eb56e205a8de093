package auth

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/taskr-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "thisisatestsecretthatis32charslong!!"

// newTestTokenService builds a token service with a controllable clock.
func newTestTokenService(t *testing.T, lifetimeMinutes int, now *time.Time) *hmacTokenService {
	t.Helper()
	svc, err := newTokenService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: lifetimeMinutes,
		BCryptCost:           4,
	}, func() time.Time { return *now })
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_Config(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 30})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewTokenService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	svc, err := NewTokenService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 30})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestIssueAndValidateToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, 30, &now)

	subject := Subject{Username: "sean", UserID: 7}
	token, err := svc.IssueToken(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, TokenType, token.TokenType)
	assert.Equal(t, now.Add(30*time.Minute), token.ExpiresAt)
	assert.Len(t, strings.Split(token.AccessToken, "."), 3)

	claims, err := svc.ValidateToken(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.Subject)
	assert.Equal(t, now, claims.IssuedAt.UTC())
	assert.Equal(t, now.Add(30*time.Minute), claims.ExpiresAt.UTC())
	assert.NotEmpty(t, claims.ID)

	userID, err := svc.ExtractUserID(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestToken_SubjectIsJSON(t *testing.T) {
	t.Parallel()
	now := time.Now()
	svc := newTestTokenService(t, 30, &now)

	token, err := svc.IssueToken(context.Background(), Subject{Username: "jadon", UserID: 2})
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token.AccessToken, &jwt.RegisteredClaims{})
	require.NoError(t, err)
	sub, err := parsed.Claims.GetSubject()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(sub), &decoded))
	assert.Equal(t, "jadon", decoded["username"])
	assert.Equal(t, float64(2), decoded["id"])
}

func TestValidateToken_ExpiryWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	issuedAt := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	svc := newTestTokenService(t, 30, &now)

	token, err := svc.IssueToken(ctx, Subject{Username: "sean", UserID: 1})
	require.NoError(t, err)

	now = issuedAt.Add(29 * time.Minute)
	_, err = svc.ValidateToken(ctx, token.AccessToken)
	assert.NoError(t, err, "token should be valid at T+29m")

	now = issuedAt.Add(31 * time.Minute)
	_, err = svc.ValidateToken(ctx, token.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken, "token should be expired at T+31m")

	_, err = svc.ExtractUserID(ctx, token.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Rejections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now()
	svc := newTestTokenService(t, 30, &now)

	valid, err := svc.IssueToken(ctx, Subject{Username: "sean", UserID: 1})
	require.NoError(t, err)

	signWith := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	claimsWithSubject := func(sub string) jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}
	}

	parts := strings.Split(valid.AccessToken, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrMissingToken},
		{"malformed", "not-a-jwt", ErrInvalidToken},
		{"bad signature", tampered, ErrInvalidToken},
		{
			name:    "wrong secret",
			token:   signWith(jwt.SigningMethodHS256, []byte("another-secret-that-is-32-chars-long!"), claimsWithSubject(`{"username":"sean","id":1}`)),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong algorithm",
			token:   signWith(jwt.SigningMethodHS512, []byte(testSecret), claimsWithSubject(`{"username":"sean","id":1}`)),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "alg none",
			token:   signWith(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claimsWithSubject(`{"username":"sean","id":1}`)),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "subject not json",
			token:   signWith(jwt.SigningMethodHS256, []byte(testSecret), claimsWithSubject("1")),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "subject without id",
			token:   signWith(jwt.SigningMethodHS256, []byte(testSecret), claimsWithSubject(`{"username":"sean"}`)),
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing expiry",
			token: signWith(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
				Subject: `{"username":"sean","id":1}`,
			}),
			wantErr: ErrInvalidToken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ValidateToken(ctx, tc.token)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	t.Parallel()
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("password0")
	require.NoError(t, err)
	assert.NotEqual(t, "password0", hash)

	assert.NoError(t, hasher.Compare(hash, "password0"))
	assert.Error(t, hasher.Compare(hash, "password1"))

	// out-of-range cost falls back to the default
	assert.Equal(t, 10, NewBcryptHasher(1).cost)
}
