package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds request-scoped logging context, shared by the Admin API's
// HTTP handlers and the relay server's per-connection goroutines.
type LogContext struct {
	TraceID    string // request correlation id
	RouteID    string // Admin API route identifier
	ClientAddr string // remote address (client or HTTP caller)
	Session    int    // relay session id, -1 when not applicable
	Username   string // authenticated admin username, if any
	StartTime  time.Time
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext with the given remote address.
func NewLogContext(clientAddr string) *LogContext {
	return &LogContext{
		ClientAddr: clientAddr,
		Session:    -1,
		StartTime:  time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		TraceID:    lc.TraceID,
		RouteID:    lc.RouteID,
		ClientAddr: lc.ClientAddr,
		Session:    lc.Session,
		Username:   lc.Username,
		StartTime:  lc.StartTime,
	}
}

// WithRoute returns a copy with the route id set
func (lc *LogContext) WithRoute(routeID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.RouteID = routeID
	}
	return clone
}

// WithSession returns a copy with the relay session id set
func (lc *LogContext) WithSession(session int) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Session = session
	}
	return clone
}

// WithUsername returns a copy with the authenticated username set
func (lc *LogContext) WithUsername(username string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Username = username
	}
	return clone
}

// WithTrace returns a copy with the trace id set
func (lc *LogContext) WithTrace(traceID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
