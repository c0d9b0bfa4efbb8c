package handlers

import (
	"net/http"
	"strconv"
	"time"
)

// ApduHandler implements GET /api/apdu/stats.
type ApduHandler struct {
	deps *Deps
}

// NewApduHandler creates an ApduHandler.
func NewApduHandler(deps *Deps) *ApduHandler {
	return &ApduHandler{deps: deps}
}

// Stats returns the APDU aggregation for the requested range.
func (h *ApduHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.deps.Store == nil {
		writeError(w, ErrLogDBNotConfigured)
		return
	}

	q := r.URL.Query()

	from, err := time.Parse(time.RFC3339, q.Get("from"))
	if err != nil {
		writeError(w, ErrBadJSON)
		return
	}
	to, err := time.Parse(time.RFC3339, q.Get("to"))
	if err != nil {
		writeError(w, ErrBadJSON)
		return
	}
	if to.Before(from) {
		writeError(w, ErrToBeforeFrom)
		return
	}

	top := 20
	if s := q.Get("top"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			top = n
		}
	}
	top = clampInt(top, 1, 200)

	stats, err := h.deps.Store.ApduStats(r.Context(), from.Unix(), to.Unix(), top, parseTailFilter(r))
	if err != nil {
		writeError(w, ErrListFailed)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
