package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/nfcgate/relay/pkg/controlplane/store"
)

// HealthHandler implements GET /api/health.
type HealthHandler struct {
	deps *Deps
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(deps *Deps) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Server             string `json:"server"`
	StartedUnix        int64  `json:"started_unix"`
	UptimeSeconds       int64  `json:"uptime_seconds"`
	DBConfigured       bool   `json:"db_configured"`
	DecoderAvailable   bool   `json:"decoder_available"`
	RedactionMode      string `json:"redaction_mode"`
	DBSizeBytes        int64  `json:"db_size_bytes,omitempty"`
	Logs               int64  `json:"logs,omitempty"`
	ApduEvents         int64  `json:"apdu_events,omitempty"`
	Payloads           int64  `json:"payloads,omitempty"`
	LatestLogUnix      int64  `json:"latest_log_unix,omitempty"`
	LatestApduUnix     int64  `json:"latest_apdu_unix,omitempty"`
	RetentionDBDays    int    `json:"retention_db_days"`
	RetentionJSONLDays int    `json:"retention_jsonl_days"`
	RetentionSweepSecs int    `json:"retention_sweep_seconds"`
}

// Health reports server identity, Log Store status and row counts, and
// configured retention settings.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	resp := healthResponse{
		Server:             "nfcgate-relay",
		StartedUnix:        h.deps.StartTime.Unix(),
		UptimeSeconds:      int64(now.Sub(h.deps.StartTime).Seconds()),
		DBConfigured:       h.deps.Store != nil,
		DecoderAvailable:   h.deps.DecoderAvailable,
		RedactionMode:      h.deps.RedactionMode,
		RetentionDBDays:    h.deps.RetentionDBDays,
		RetentionJSONLDays: h.deps.RetentionJSONLDays,
		RetentionSweepSecs: h.deps.RetentionSweepSeconds,
	}

	if h.deps.Store != nil {
		var counts store.HealthCounts
		counts, err := h.deps.Store.Counts(r.Context())
		if err == nil {
			resp.Logs = counts.Logs
			resp.ApduEvents = counts.ApduEvents
			resp.Payloads = counts.Payloads
			resp.LatestLogUnix = counts.LatestLogUnix
			resp.LatestApduUnix = counts.LatestApduUnix
		}
		if info, err := os.Stat(h.deps.Store.Path()); err == nil {
			resp.DBSizeBytes = info.Size()
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
