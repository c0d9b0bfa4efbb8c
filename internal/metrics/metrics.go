// Package metrics registers the relay's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveSessions is the current number of distinct session ids with at
	// least one member.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nfcgate_active_sessions",
		Help: "Current number of sessions with at least one connected client.",
	})

	// ConnectedClients is the current number of open relay TCP connections.
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nfcgate_connected_clients",
		Help: "Current number of connected relay clients.",
	})

	// FramesRelayed counts inbound frames that reached the publish step.
	FramesRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nfcgate_frames_relayed_total",
		Help: "Total number of frames published to session peers, by origin tag.",
	}, []string{"tag"})

	// ApduEventsIndexed counts frames the APDU Indexer successfully decoded.
	ApduEventsIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nfcgate_apdu_events_indexed_total",
		Help: "Total number of frames that decoded to an APDU event.",
	})

	// LogWriteFailures counts failed writes to the Log Store or rolling
	// file log, by sink.
	LogWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nfcgate_log_write_failures_total",
		Help: "Total number of failed log event writes, by sink.",
	}, []string{"sink"})

	// RetentionSweeps counts completed retention sweeps, by outcome.
	RetentionSweeps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nfcgate_retention_sweeps_total",
		Help: "Total number of retention sweep passes, by outcome.",
	}, []string{"outcome"})
)
