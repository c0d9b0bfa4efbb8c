// Package handlers implements the Admin API's HTTP handlers against the
// Log Store.
package handlers

import (
	"encoding/json"
	"net/http"
)

// Error kinds. Every Admin API error response is {"error": "<kind>"} with
// the matching HTTP status.
const (
	ErrBadJSON             = "bad_json"
	ErrMissingCredentials  = "missing_credentials"
	ErrMissingFields       = "missing_fields"
	ErrMissingPassword     = "missing_password"
	ErrCannotDisableSelf   = "cannot_disable_self"
	ErrCannotDeleteSelf    = "cannot_delete_self"
	ErrToBeforeFrom        = "to must be >= from"
	ErrBadExportFormat     = "format must be jsonl or csv"
	ErrMissingToken        = "missing_token"
	ErrInvalidToken        = "invalid_token"
	ErrInvalidCredentials  = "invalid_credentials"
	ErrNotFound            = "not_found"
	ErrNoAdmins            = "no_admins"
	ErrAlreadyInitialized  = "already_initialized"
	ErrUsernameTaken       = "username_taken"
	ErrListFailed          = "list_failed"
	ErrCreateFailed        = "create_failed"
	ErrUpdateFailed        = "update_failed"
	ErrDeleteFailed        = "delete_failed"
	ErrLoginFailed         = "login_failed"
	ErrBootstrapFailed     = "bootstrap_failed"
	ErrLogDBNotConfigured  = "log database not configured"
)

var statusByKind = map[string]int{
	ErrBadJSON:            http.StatusBadRequest,
	ErrMissingCredentials: http.StatusBadRequest,
	ErrMissingFields:      http.StatusBadRequest,
	ErrMissingPassword:    http.StatusBadRequest,
	ErrCannotDisableSelf:  http.StatusBadRequest,
	ErrCannotDeleteSelf:   http.StatusBadRequest,
	ErrToBeforeFrom:       http.StatusBadRequest,
	ErrBadExportFormat:    http.StatusBadRequest,
	ErrMissingToken:       http.StatusUnauthorized,
	ErrInvalidToken:       http.StatusUnauthorized,
	ErrInvalidCredentials: http.StatusUnauthorized,
	ErrNotFound:           http.StatusNotFound,
	ErrNoAdmins:           http.StatusConflict,
	ErrAlreadyInitialized: http.StatusConflict,
	ErrUsernameTaken:      http.StatusConflict,
	ErrListFailed:         http.StatusInternalServerError,
	ErrCreateFailed:       http.StatusInternalServerError,
	ErrUpdateFailed:       http.StatusInternalServerError,
	ErrDeleteFailed:       http.StatusInternalServerError,
	ErrLoginFailed:        http.StatusInternalServerError,
	ErrBootstrapFailed:    http.StatusInternalServerError,
	ErrLogDBNotConfigured: http.StatusServiceUnavailable,
}

// writeError writes a {"error": "<kind>"} body with the status the kind
// maps to (internal server error if the kind is not in the table).
func writeError(w http.ResponseWriter, kind string) {
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]string{"error": kind})
}

// writeJSON writes v as the JSON response body with the given status and
// the no-store caching the Admin API requires throughout.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v, returning false and writing
// a bad_json error response on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, ErrBadJSON)
		return false
	}
	return true
}
