package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"created", `{"name":"Grace","username":"grace","password":"longpassword1"}`, http.StatusCreated},
		{"username taken", `{"name":"Ada","username":"ada","password":"longpassword1"}`, http.StatusBadRequest},
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"unknown field", `{"name":"G","username":"grace","password":"longpassword1","role":"admin"}`, http.StatusBadRequest},
		{"short password", `{"name":"Grace","username":"grace","password":"short"}`, http.StatusUnprocessableEntity},
		{"username with space", `{"name":"Grace","username":"gr ace","password":"longpassword1"}`, http.StatusUnprocessableEntity},
		{"blank name", `{"name":"   ","username":"grace","password":"longpassword1"}`, http.StatusUnprocessableEntity},
		{"multibyte password over 72 bytes", `{"name":"Grace","username":"grace","password":"` + strings.Repeat("é", 40) + `"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuth(newFakeAuth(), logger.Discard())

			req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decode(t, rec)
			if tt.status == http.StatusCreated {
				assert.Equal(t, "User registered successfully", body["message"])
			} else {
				assert.Contains(t, body, "error")
			}
		})
	}
}

func TestRegister_HidesInternalErrors(t *testing.T) {
	auth := newFakeAuth()
	auth.err = errors.New("pq: connection reset by peer")
	h := NewAuth(auth, logger.Discard())

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"name":"Grace","username":"grace","password":"longpassword1"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestLogin_Form(t *testing.T) {
	h := NewAuth(newFakeAuth(), logger.Discard())

	form := url.Values{"username": {"ada"}, "password": {"longpassword1"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	body := decode(t, rec)
	assert.Equal(t, validToken, body["access_token"])
	assert.Equal(t, "bearer", body["token_type"])
	assert.InDelta(t, 1800, body["expires_in"], 2)
}

func TestLogin_JSON(t *testing.T) {
	h := NewAuth(newFakeAuth(), logger.Discard())

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"ada","password":"longpassword1"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, validToken, decode(t, rec)["access_token"])
}

func TestLogin_Failures(t *testing.T) {
	auth := newFakeAuth()
	h := NewAuth(auth, logger.Discard())

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.Login(rec, req)
		return rec
	}

	rec := post(url.Values{"username": {"ada"}, "password": {"wrong-password"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid username or password", decode(t, rec)["error"])

	rec = post(url.Values{"username": {"ada"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 1, auth.loginCalls)
}

func TestMe(t *testing.T) {
	h := NewAuth(newFakeAuth(), logger.Discard())

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = req.WithContext(models.WithUsername(req.Context(), "ada"))
	rec = httptest.NewRecorder()
	h.Me(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada", decode(t, rec)["username"])
}

func TestFederated(t *testing.T) {
	tests := []struct {
		name     string
		disabled bool
		query    string
		status   int
	}{
		{"success", false, "code=good&state=s1", http.StatusOK},
		{"missing code", false, "state=s1", http.StatusBadRequest},
		{"provider error", false, "error=access_denied&state=s1", http.StatusBadRequest},
		{"invalid state", false, "code=good&state=forged", http.StatusBadRequest},
		{"exchange failed", false, "code=bad&state=s1", http.StatusBadGateway},
		{"disabled", true, "code=good&state=s1", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := newFakeAuth()
			auth.disabled = tt.disabled
			h := NewAuth(auth, logger.Discard())

			rec := httptest.NewRecorder()
			h.FederatedCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/provider/callback?"+tt.query, nil))

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status == http.StatusOK {
				assert.Equal(t, "federated-token", decode(t, rec)["access_token"])
			}
		})
	}
}

func TestFederatedBegin(t *testing.T) {
	auth := newFakeAuth()
	h := NewAuth(auth, logger.Discard())

	rec := httptest.NewRecorder()
	h.FederatedBegin(rec, httptest.NewRequest(http.MethodGet, "/auth/provider/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://idp.example.com/auth?state=s1", decode(t, rec)["authorization_url"])

	auth.disabled = true
	rec = httptest.NewRecorder()
	h.FederatedBegin(rec, httptest.NewRequest(http.MethodGet, "/auth/provider/login", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "federated login is not configured", decode(t, rec)["error"])
}
