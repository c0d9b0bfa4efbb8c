package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nfcgate/relay/pkg/controlplane/auth"
	"github.com/nfcgate/relay/pkg/controlplane/store"
)

// UserHandler implements the authenticated /api/admin/users CRUD surface.
type UserHandler struct {
	deps *Deps
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(deps *Deps) *UserHandler {
	return &UserHandler{deps: deps}
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Disabled bool   `json:"disabled"`
	Created  int64  `json:"created_unix"`
}

func toUserResponse(u *store.AdminUser) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Disabled: u.Disabled, Created: u.CreatedUnix}
}

// List returns every admin account.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.deps.Store.ListAdminUsers(r.Context())
	if err != nil {
		writeError(w, ErrListFailed)
		return
	}

	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	writeJSON(w, http.StatusOK, out)
}

type createUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Create adds a new admin account. Any authenticated admin may create
// others (resolved in DESIGN.md: no extra role
// check beyond being an authenticated, enabled admin).
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.deps.Validate.Struct(req); err != nil {
		writeError(w, ErrMissingFields)
		return
	}

	salt, hash, iterations, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, ErrCreateFailed)
		return
	}

	user := &store.AdminUser{
		Username:    req.Username,
		PwSalt:      salt,
		PwHash:      hash,
		PwIters:     iterations,
		CreatedUnix: time.Now().UTC().Unix(),
	}
	if err := h.deps.Store.CreateAdminUser(r.Context(), user); err != nil {
		if err == store.ErrUsernameTaken {
			writeError(w, ErrUsernameTaken)
			return
		}
		writeError(w, ErrCreateFailed)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

type updateUserRequest struct {
	Password *string `json:"password"`
	Disabled *bool   `json:"disabled"`
}

// Update changes a user's password and/or disabled flag. Self-disable is
// forbidden. Password change or disable revokes all of that user's tokens.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	caller, _ := userFromContext(r.Context())
	if req.Disabled != nil && *req.Disabled && caller != nil && caller.ID == id {
		writeError(w, ErrCannotDisableSelf)
		return
	}

	user, err := h.deps.Store.GetAdminUserByID(r.Context(), id)
	if err != nil {
		writeError(w, ErrNotFound)
		return
	}

	revoke := false
	if req.Password != nil {
		if *req.Password == "" {
			writeError(w, ErrMissingPassword)
			return
		}
		salt, hash, iterations, err := auth.HashPassword(*req.Password)
		if err != nil {
			writeError(w, ErrUpdateFailed)
			return
		}
		user.PwSalt, user.PwHash, user.PwIters = salt, hash, iterations
		revoke = true
	}
	if req.Disabled != nil {
		user.Disabled = *req.Disabled
		if user.Disabled {
			revoke = true
		}
	}

	if err := h.deps.Store.UpdateAdminUser(r.Context(), user, revoke); err != nil {
		writeError(w, ErrUpdateFailed)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Delete removes an admin account. Self-delete is forbidden.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	caller, _ := userFromContext(r.Context())
	if caller != nil && caller.ID == id {
		writeError(w, ErrCannotDeleteSelf)
		return
	}

	if err := h.deps.Store.DeleteAdminUser(r.Context(), id); err != nil {
		if err == store.ErrUserNotFound {
			writeError(w, ErrNotFound)
			return
		}
		writeError(w, ErrDeleteFailed)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, ErrNotFound)
		return 0, false
	}
	return id, true
}
