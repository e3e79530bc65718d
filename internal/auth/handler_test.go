package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpmiddleware "github.com/cavespring/plumbing-leads/internal/http/middleware"
)

func loginBody(t *testing.T, password string) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]string{"password": password})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestLoginSuccessIssuesTokenAndSession(t *testing.T) {
	sessions := NewMemorySessionStore()
	h := NewHandler(Config{Password: "hunter2", JWTSecret: "test-secret", SessionTTL: time.Hour}, sessions, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", loginBody(t, "hunter2"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, 5*time.Second)

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)

	active, err := sessions.Active(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, active, "login should register the session")
}

func TestLoginWrongPassword(t *testing.T) {
	h := NewHandler(Config{Password: "hunter2", JWTSecret: "test-secret"}, NewMemorySessionStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", loginBody(t, "wrong"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginDisabledWithoutCredentials(t *testing.T) {
	h := NewHandler(Config{JWTSecret: "test-secret"}, NewMemorySessionStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", loginBody(t, "anything"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	h := NewHandler(Config{PasswordHash: string(hash), JWTSecret: "test-secret"}, NewMemorySessionStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", loginBody(t, "hunter2"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin/login", loginBody(t, "wrong"))
	rec = httptest.NewRecorder()
	h.Login(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginInvalidBody(t *testing.T) {
	h := NewHandler(Config{Password: "hunter2", JWTSecret: "test-secret"}, NewMemorySessionStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := NewMemorySessionStore()
	require.NoError(t, sessions.Save(context.Background(), "sess-1", time.Hour))

	h := NewHandler(Config{Password: "hunter2", JWTSecret: "test-secret"}, sessions, nil)

	claims := jwt.RegisteredClaims{ID: "sess-1", Subject: "admin"}
	ctx := httpmiddleware.ContextWithAdminClaims(context.Background(), claims)
	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	active, err := sessions.Active(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.False(t, active, "logout should revoke the session")
}

func TestLogoutWithoutClaims(t *testing.T) {
	h := NewHandler(Config{Password: "hunter2", JWTSecret: "test-secret"}, NewMemorySessionStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
