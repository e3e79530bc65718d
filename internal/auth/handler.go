package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	httpmiddleware "github.com/cavespring/plumbing-leads/internal/http/middleware"
	"github.com/cavespring/plumbing-leads/pkg/logging"
)

// Config holds the admin session boundary settings.
type Config struct {
	// Password is the shared admin secret compared in constant time.
	// PasswordHash, when set, takes precedence and is checked with
	// bcrypt instead.
	Password     string
	PasswordHash string
	JWTSecret    string
	SessionTTL   time.Duration
}

// Handler issues and revokes admin session tokens.
type Handler struct {
	cfg      Config
	sessions SessionStore
	logger   *logging.Logger
	now      func() time.Time
}

// NewHandler creates the admin auth handler.
func NewHandler(cfg Config, sessions SessionStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return &Handler{
		cfg:      cfg,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the bearer token staff tooling presents on
// admin routes.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /admin/login requests
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.cfg.JWTSecret == "" || (h.cfg.Password == "" && h.cfg.PasswordHash == "") {
		writeError(w, http.StatusUnauthorized, "admin auth disabled")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.passwordMatches(req.Password) {
		h.logger.Warn("admin login rejected", "remote_ip", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sessionID := uuid.NewString()
	expiresAt := h.now().Add(h.cfg.SessionTTL)
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(h.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		h.logger.Error("failed to sign session token", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	if err := h.sessions.Save(r.Context(), sessionID, h.cfg.SessionTTL); err != nil {
		h.logger.Error("failed to save session", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.logger.Info("admin session issued", "session_id", sessionID, "expires_at", expiresAt)
	writeJSON(w, http.StatusOK, LoginResponse{Token: signed, ExpiresAt: expiresAt})
}

// Logout handles POST /admin/logout requests. It runs behind the
// session middleware, which put the verified claims on the context.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpmiddleware.AdminClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}
	if err := h.sessions.Revoke(r.Context(), claims.ID); err != nil {
		h.logger.Error("failed to revoke session", "error", err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	h.logger.Info("admin session revoked", "session_id", claims.ID)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) passwordMatches(supplied string) bool {
	if h.cfg.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.cfg.PasswordHash), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(h.cfg.Password), []byte(supplied)) == 1
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
