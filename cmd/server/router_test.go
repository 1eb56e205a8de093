package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/phrazzld/taskr-api/internal/config"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/mocks"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-that-is-at-least-32-characters"

// newTestServer wires the real router, token service and middleware around
// mock services.
func newTestServer(t *testing.T, users *mocks.MockUserService, tasks *mocks.MockTaskService) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:               8080,
			LogLevel:           "debug",
			CORSAllowedOrigins: []string{"http://localhost:4200"},
		},
		Auth: config.AuthConfig{JWTSecret: testJWTSecret, TokenLifetimeMinutes: 30, BCryptCost: 4},
	}

	tokens, err := auth.NewTokenService(cfg.Auth)
	require.NoError(t, err)

	app := &application{
		config:            cfg,
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		tokenService:      tokens,
		userService:       users,
		taskService:       tasks,
		suggestionService: &mocks.MockSuggestionService{Suggestion: "Write docs"},
	}

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &mocks.MockUserService{}, &mocks.MockTaskService{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &mocks.MockUserService{}, &mocks.MockTaskService{})

	routes := []struct{ method, path string }{
		{http.MethodPost, "/task"},
		{http.MethodPut, "/task/6f1c2a3e-8a4b-4f7e-9d21-0c5b7e9a1f00"},
		{http.MethodGet, "/tasks"},
		{http.MethodGet, "/tasks/open-count"},
		{http.MethodGet, "/tasks/percentage-complete"},
		{http.MethodGet, "/users"},
		{http.MethodPost, "/task/recommend-fields"},
		{http.MethodPost, "/task/suggest-new"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			req, err := http.NewRequest(rt.method, srv.URL+rt.path, nil)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer not-a-token")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &mocks.MockUserService{}, &mocks.MockTaskService{})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "http://localhost:4200", resp.Header.Get("Access-Control-Allow-Origin"))
}

// Signup, login with the issued token, then call protected endpoints with it.
func TestLoginThenUseToken(t *testing.T) {
	t.Parallel()

	users := &mocks.MockUserService{
		SignupFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: username}, nil
		},
		AuthenticateFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: username}, nil
		},
		Users: []*domain.User{{ID: 1, Username: "sean"}},
	}
	tasks := &mocks.MockTaskService{
		ListTasksFn: func(ctx context.Context, f domain.TaskFilter, p domain.PageRequest) (*domain.TaskPage, error) {
			return &domain.TaskPage{Pagination: domain.NewPagination(p.Offset, p.Limit, 0)}, nil
		},
	}
	srv := newTestServer(t, users, tasks)

	resp, err := http.Post(srv.URL+"/signup", "application/json",
		strings.NewReader(`{"username":"sean","password":"password0"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.PostForm(srv.URL+"/login", url.Values{"username": {"sean"}, "password": {"password0"}})
	require.NoError(t, err)
	var login struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bearer", login.TokenType)

	for _, path := range []string{"/users", "/tasks"} {
		req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+login.AccessToken)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/task/suggest-new", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"newTaskDescription":"Write docs"}`, string(body))
}
