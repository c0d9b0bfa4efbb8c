package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorMapsKnownKindsToStatus(t *testing.T) {
	cases := map[string]int{
		ErrBadJSON:            http.StatusBadRequest,
		ErrMissingToken:       http.StatusUnauthorized,
		ErrInvalidCredentials: http.StatusUnauthorized,
		ErrNotFound:           http.StatusNotFound,
		ErrUsernameTaken:      http.StatusConflict,
		ErrListFailed:         http.StatusInternalServerError,
		ErrLogDBNotConfigured: http.StatusServiceUnavailable,
	}

	for kind, wantStatus := range cases {
		w := httptest.NewRecorder()
		writeError(w, kind)
		assert.Equal(t, wantStatus, w.Code, "kind=%s", kind)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, kind, body["error"])
	}
}

func TestWriteErrorUnknownKindDefaultsTo500(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, "something_unmapped")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWriteJSONSetsNoStoreHeader(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestDecodeJSONRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	var v map[string]any
	ok := decodeJSON(w, req, &v)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
