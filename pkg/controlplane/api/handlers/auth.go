package handlers

import (
	"net/http"
	"time"

	"github.com/nfcgate/relay/pkg/controlplane/auth"
	"github.com/nfcgate/relay/pkg/controlplane/store"
)

// AuthHandler implements GET /api/auth/status, POST /api/auth/bootstrap and
// POST /api/auth/login.
type AuthHandler struct {
	deps *Deps
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(deps *Deps) *AuthHandler {
	return &AuthHandler{deps: deps}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Status reports whether any admin has bootstrapped the Admin API yet.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	if h.deps.Store == nil {
		writeError(w, ErrLogDBNotConfigured)
		return
	}

	n, err := h.deps.Store.CountActiveAdmins(r.Context())
	if err != nil {
		writeError(w, ErrListFailed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"has_admins": n > 0})
}

// Bootstrap creates the first admin account, one shot.
func (h *AuthHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	if h.deps.Store == nil {
		writeError(w, ErrLogDBNotConfigured)
		return
	}

	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.deps.Validate.Struct(req); err != nil {
		writeError(w, ErrMissingCredentials)
		return
	}

	n, err := h.deps.Store.CountActiveAdmins(r.Context())
	if err != nil {
		writeError(w, ErrBootstrapFailed)
		return
	}
	if n > 0 {
		writeError(w, ErrAlreadyInitialized)
		return
	}

	salt, hash, iterations, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, ErrBootstrapFailed)
		return
	}

	now := time.Now().UTC()
	user := &store.AdminUser{
		Username:    req.Username,
		PwSalt:      salt,
		PwHash:      hash,
		PwIters:     iterations,
		CreatedUnix: now.Unix(),
	}
	if err := h.deps.Store.CreateAdminUser(r.Context(), user); err != nil {
		if err == store.ErrUsernameTaken {
			writeError(w, ErrAlreadyInitialized)
			return
		}
		writeError(w, ErrBootstrapFailed)
		return
	}

	_ = h.deps.Store.DeleteExpiredTokens(r.Context(), now.Unix())

	resp, ok := h.issueToken(w, r, user, ErrBootstrapFailed)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Login verifies credentials and issues a new token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.deps.Store == nil {
		writeError(w, ErrLogDBNotConfigured)
		return
	}

	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.deps.Validate.Struct(req); err != nil {
		writeError(w, ErrMissingCredentials)
		return
	}

	user, err := h.deps.Store.GetAdminUserByUsername(r.Context(), req.Username)
	if err != nil || user.Disabled {
		writeError(w, ErrInvalidCredentials)
		return
	}
	if !auth.VerifyPassword(req.Password, user.PwSalt, user.PwHash, user.PwIters) {
		writeError(w, ErrInvalidCredentials)
		return
	}

	_ = h.deps.Store.DeleteExpiredTokens(r.Context(), time.Now().UTC().Unix())

	resp, ok := h.issueToken(w, r, user, ErrLoginFailed)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// issueToken creates and persists a fresh token for user, writing
// failKind on failure. The caller is responsible for choosing the success
// status code.
func (h *AuthHandler) issueToken(w http.ResponseWriter, r *http.Request, user *store.AdminUser, failKind string) (tokenResponse, bool) {
	plaintext, hash, err := auth.NewToken()
	if err != nil {
		writeError(w, failKind)
		return tokenResponse{}, false
	}

	now := time.Now().UTC()
	expires := now.Add(h.deps.TokenTTL)
	token := &store.AdminToken{
		TokenHash:   hash,
		UserID:      user.ID,
		CreatedUnix: now.Unix(),
		ExpiresUnix: expires.Unix(),
	}
	if err := h.deps.Store.CreateAdminToken(r.Context(), token); err != nil {
		writeError(w, failKind)
		return tokenResponse{}, false
	}

	return tokenResponse{Token: plaintext, ExpiresAt: expires.Unix()}, true
}
