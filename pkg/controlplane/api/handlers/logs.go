package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/nfcgate/relay/pkg/controlplane/store"
)

// LogsHandler implements GET /api/logs/tail and GET /api/logs/export.
type LogsHandler struct {
	deps *Deps
}

// NewLogsHandler creates a LogsHandler.
func NewLogsHandler(deps *Deps) *LogsHandler {
	return &LogsHandler{deps: deps}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// logView is the documented JSON shape for a LogEvent row: a single ISO
// timestamp and args decoded into a structured array. Unlike a rolling file
// log line, it carries one ISO timestamp rather than both unix and ISO.
type logView struct {
	TS      string `json:"ts"`
	Tag     string `json:"tag"`
	Origin  string `json:"origin"`
	Session *uint8 `json:"session"`
	Args    []any  `json:"args"`
}

func toLogView(event store.LogEvent) logView {
	var args []any
	if err := json.Unmarshal([]byte(event.ArgsJSON), &args); err != nil {
		args = []any{}
	}
	return logView{
		TS:      event.TSISO,
		Tag:     event.Tag,
		Origin:  event.Origin,
		Session: event.Session,
		Args:    args,
	}
}

func parseTailFilter(r *http.Request) store.TailFilter {
	f := store.TailFilter{
		Tag:    r.URL.Query().Get("tag"),
		Origin: r.URL.Query().Get("origin"),
	}
	if s := r.URL.Query().Get("session"); s != "" {
		if n, err := strconv.ParseUint(s, 10, 8); err == nil {
			sid := uint8(n)
			f.Session = &sid
		}
	}
	return f
}

// Tail returns the most recent log events matching the query filters.
func (h *LogsHandler) Tail(w http.ResponseWriter, r *http.Request) {
	if h.deps.Store == nil {
		writeError(w, ErrLogDBNotConfigured)
		return
	}

	limit := 200
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}
	limit = clampInt(limit, 1, 1000)

	rows, err := h.deps.Store.TailLogs(r.Context(), limit, parseTailFilter(r))
	if err != nil {
		writeError(w, ErrListFailed)
		return
	}

	views := make([]logView, len(rows))
	for i, row := range rows {
		views[i] = toLogView(row)
	}
	writeJSON(w, http.StatusOK, views)
}

// Export streams log events within an inclusive timestamp range, as JSONL
// or CSV, in ascending order.
func (h *LogsHandler) Export(w http.ResponseWriter, r *http.Request) {
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

	format := q.Get("format")
	if format == "" {
		format = "jsonl"
	}
	if format != "jsonl" && format != "csv" {
		writeError(w, ErrBadExportFormat)
		return
	}

	filter := parseTailFilter(r)

	w.Header().Set("Cache-Control", "no-store")
	if format == "csv" {
		h.exportCSV(w, r, from, to, filter)
	} else {
		h.exportJSONL(w, r, from, to, filter)
	}
}

func (h *LogsHandler) exportJSONL(w http.ResponseWriter, r *http.Request, from, to time.Time, filter store.TailFilter) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	_ = h.deps.Store.ExportLogs(r.Context(), from.Unix(), to.Unix(), filter, func(event store.LogEvent) error {
		return enc.Encode(toLogView(event))
	})
}

func (h *LogsHandler) exportCSV(w http.ResponseWriter, r *http.Request, from, to time.Time, filter store.TailFilter) {
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"ts", "tag", "origin", "session", "args"})

	_ = h.deps.Store.ExportLogs(r.Context(), from.Unix(), to.Unix(), filter, func(event store.LogEvent) error {
		session := ""
		if event.Session != nil {
			session = fmt.Sprintf("%d", *event.Session)
		}
		return cw.Write([]string{
			event.TSISO,
			event.Tag,
			event.Origin,
			session,
			event.ArgsJSON,
		})
	})
	cw.Flush()
}
