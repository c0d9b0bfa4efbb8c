// Package relaylog implements the relay's domain structured logger: the
// log(tag, args…, origin, session) entry point,
// distinct from the ambient operational logger in internal/logger. Every
// call renders a human line to stdout, persists a LogEvent (and, when
// applicable, a RawPayload and an ApduEvent) to the Log Store, invokes the
// APDU Indexer, and appends a line to the rolling file log.
package relaylog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nfcgate/relay/internal/apdu"
	"github.com/nfcgate/relay/internal/logger"
	"github.com/nfcgate/relay/internal/metrics"
	"github.com/nfcgate/relay/pkg/controlplane/store"
)

// Store is the subset of the Log Store Logger needs. Satisfied by
// *store.GORMStore.
type Store interface {
	PersistLogEvent(ctx context.Context, event *store.LogEvent, raw []byte, apduEvent *store.ApduEvent) (int64, error)
}

// Logger is the relay's domain event logger. A zero Logger is not usable;
// use New. Logger is safe for concurrent use: a single mutex serializes
// DB and file writes so they interleave consistently.
type Logger struct {
	mode    RedactionMode
	store   Store
	indexer *apdu.Indexer
	file    *FileLog

	mu sync.Mutex
}

// New creates a Logger. store and file may be nil (logging then only
// produces the stdout line); indexer may be nil (APDU indexing is skipped).
func New(mode RedactionMode, st Store, indexer *apdu.Indexer, file *FileLog) *Logger {
	return &Logger{mode: mode, store: st, indexer: indexer, file: file}
}

// File returns the Logger's FileLog, or nil if none was configured.
func (l *Logger) File() *FileLog {
	return l.file
}

// WithLock runs fn while holding the Logger's write mutex, so a retention
// sweep deleting rows can't interleave with an in-flight Log call touching
// the same store.
func (l *Logger) WithLock(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

// Log records one event. tag and origin are required; session is nil when
// the event has no session association. args follows tag in the same
// positional sequence the relay core observed.
//
// Any failure in persistence or file append is swallowed: logging must
// never crash the relay. The stdout line is always produced,
// even when every other side effect fails.
func (l *Logger) Log(tag, origin string, session *uint8, args ...Arg) {
	now := time.Now().UTC()
	tsUnix := now.Unix()
	tsISO := now.Format(time.RFC3339)

	rendered := render(l.mode, args)
	fmt.Println(renderLine(tsISO, tag, origin, rendered))

	l.mu.Lock()
	defer l.mu.Unlock()

	argsJSON, err := json.Marshal(rendered)
	if err != nil {
		argsJSON = []byte("[]")
	}

	event := &store.LogEvent{
		TSUnix:   tsUnix,
		TSISO:    tsISO,
		Tag:      tag,
		Origin:   origin,
		Session:  session,
		ArgsJSON: string(argsJSON),
	}

	var raw []byte
	var apduEvent *store.ApduEvent

	if isInboundFrameShape(tag, args) {
		payload := inboundPayload(args)

		if l.mode != RedactionFull {
			raw = payload
		}

		if l.indexer != nil {
			if ev, ok := l.indexer.Index(tsUnix, origin, tag, session, payload); ok {
				apduEvent = &ev
				metrics.ApduEventsIndexed.Inc()
			}
		}
	}

	if l.store != nil {
		if _, err := l.store.PersistLogEvent(context.Background(), event, raw, apduEvent); err != nil {
			logger.Warn("failed to persist log event", logger.Component("relaylog"), logger.Err(err))
			metrics.LogWriteFailures.WithLabelValues("db").Inc()
		}
	}

	if l.file != nil {
		if err := l.file.Append(now, tsUnix, tsISO, tag, origin, session, rendered); err != nil {
			logger.Warn("failed to append file log", logger.Component("relaylog"), logger.Err(err))
			metrics.LogWriteFailures.WithLabelValues("file").Inc()
		}
	}
}

// renderLine builds the human stdout line: "<iso> [<tag>] <origin> <args…>".
func renderLine(tsISO, tag, origin string, rendered []any) string {
	line := fmt.Sprintf("%s [%s] %s", tsISO, tag, origin)
	for _, a := range rendered {
		switch v := a.(type) {
		case string:
			line += " " + v
		default:
			line += fmt.Sprintf(" %+v", v)
		}
	}
	return line
}
