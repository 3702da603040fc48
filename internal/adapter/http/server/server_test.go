package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/config"
	"github.com/Temutjin2k/bookshelf-auth/internal/adapter/http/handler"
	"github.com/Temutjin2k/bookshelf-auth/internal/adapter/http/middleware"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct{}

func (stubAuth) Register(context.Context, *models.UserCreateRequest) error { return nil }

func (stubAuth) Login(context.Context, string, string) (*models.AccessToken, error) {
	return &models.AccessToken{Token: "t", TokenType: "bearer", ExpiresAt: time.Now().Add(time.Minute)}, nil
}

func (stubAuth) FederatedBegin(context.Context) (string, error) { return "", types.ErrProviderDisabled }

func (stubAuth) FederatedLogin(context.Context, string, string) (*models.AccessToken, error) {
	return nil, types.ErrProviderDisabled
}

func (stubAuth) ValidateSession(_ context.Context, token string) (string, error) {
	if token != "t" {
		return "", types.ErrTokenMalformed
	}
	return "ada", nil
}

type stubFavorites struct{}

func (stubFavorites) Add(context.Context, string, string) error    { return nil }
func (stubFavorites) Remove(context.Context, string, string) error { return nil }
func (stubFavorites) List(context.Context, string) ([]string, error) {
	return []string{"Dune"}, nil
}

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	l := logger.Discard()
	routes := &Handlers{
		Health:    handler.NewHealth("auth", "test", l),
		Auth:      handler.NewAuth(stubAuth{}, l),
		Favorites: handler.NewFavorites(stubFavorites{}, l),
	}
	api, err := New(config.HTTPConfig{Port: "0", ShutdownTimeout: time.Second}, routes, middleware.NewMiddleware(stubAuth{}, "auth", l), []string{"http://localhost:3000"}, l)
	require.NoError(t, err)
	return api.Handler()
}

func TestRoutes(t *testing.T) {
	h := newTestAPI(t)

	tests := []struct {
		method, path, token, body string
		status                    int
	}{
		{http.MethodGet, "/health", "", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", "", http.StatusOK},
		{http.MethodGet, "/favorites", "", "", http.StatusUnauthorized},
		{http.MethodGet, "/favorites", "t", "", http.StatusOK},
		{http.MethodGet, "/favorites", "nope", "", http.StatusUnauthorized},
		{http.MethodPost, "/favorites/add", "t", `{"book":"Dune"}`, http.StatusOK},
		{http.MethodDelete, "/favorites/delete", "t", `{"book":"Dune"}`, http.StatusOK},
		{http.MethodGet, "/auth/me", "t", "", http.StatusOK},
		{http.MethodGet, "/auth/provider/login", "", "", http.StatusServiceUnavailable},
		{http.MethodGet, "/favorites/add", "t", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nowhere", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))
		})
	}
}

func TestPublicRoutesIgnoreStaleToken(t *testing.T) {
	h := newTestAPI(t)

	tests := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodPost, "/login", `{"username":"ada","password":"password1"}`, http.StatusOK},
		{http.MethodPost, "/register", `{"name":"Ada","username":"ada","password":"password1"}`, http.StatusCreated},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/auth/provider/login", "", http.StatusServiceUnavailable},
	}

	for _, header := range []string{"Bearer stale", "Token abc"} {
		for _, tt := range tests {
			t.Run(header+" "+tt.path, func(t *testing.T) {
				req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Authorization", header)
				req.Header.Set("Content-Type", "application/json")
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)

				assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			})
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestNew_RequiresHandlers(t *testing.T) {
	_, err := New(config.HTTPConfig{}, &Handlers{}, nil, nil, logger.Discard())
	assert.Error(t, err)
}
