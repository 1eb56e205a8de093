package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/config"
	"github.com/phrazzld/taskr-api/internal/mocks"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	subject := auth.Subject{Username: "sean", UserID: 1}

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		expectedStatus int
		expectedError  string
	}{
		{"valid token", "Bearer valid-token", nil, http.StatusOK, ""},
		{"lowercase scheme", "bearer valid-token", nil, http.StatusOK, ""},
		{"missing auth header", "", nil, http.StatusUnauthorized, "Not authenticated"},
		{"invalid auth format", "InvalidFormat", nil, http.StatusUnauthorized, "Not authenticated"},
		{"basic scheme", "Basic dXNlcjpwYXNz", nil, http.StatusUnauthorized, "Not authenticated"},
		{"empty token", "Bearer ", nil, http.StatusUnauthorized, "Not authenticated"},
		{"expired token", "Bearer expired", auth.ErrExpiredToken, http.StatusUnauthorized, "Invalid or expired token"},
		{"invalid token", "Bearer invalid", auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
		{"unexpected error", "Bearer valid-token", errors.New("boom"), http.StatusInternalServerError, "Authentication error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tokens := &mocks.MockTokenService{
				Claims:      &auth.Claims{Subject: subject},
				ValidateErr: tc.validateErr,
			}
			m := NewAuthMiddleware(tokens)

			var gotSubject auth.Subject
			var called bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotSubject, _ = GetSubject(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()

			m.Authenticate(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus == http.StatusOK {
				assert.True(t, called)
				assert.Equal(t, subject, gotSubject)
				return
			}

			assert.False(t, called, "next handler must not run")
			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tc.expectedError, body.Error)
			if tc.expectedStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestAuthMiddleware_RealTokens(t *testing.T) {
	t.Parallel()

	tokens, err := auth.NewTokenService(config.AuthConfig{
		JWTSecret:            "thisisatestsecretthatis32charslong!!",
		TokenLifetimeMinutes: 30,
	})
	require.NoError(t, err)

	issued, err := tokens.IssueToken(context.Background(), auth.Subject{Username: "jadon", UserID: 2})
	require.NoError(t, err)
	assert.True(t, issued.ExpiresAt.After(time.Now()))

	var gotSubject auth.Subject
	handler := NewAuthMiddleware(tokens).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject, _ = GetSubject(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+issued.AccessToken)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, auth.Subject{Username: "jadon", UserID: 2}, gotSubject)

	req = httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+issued.AccessToken+"x")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
