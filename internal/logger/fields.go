package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation and querying.
const (
	// ========================================================================
	// Tracing / request identity
	// ========================================================================
	KeyTraceID = "trace_id" // request correlation id
	KeyRouteID = "route_id" // Admin API route identifier

	// ========================================================================
	// Relay session
	// ========================================================================
	KeySession    = "session"     // relay session id (0-255)
	KeyOrigin     = "origin"      // "client" or "server" side of a relayed frame
	KeyConnID     = "conn_id"     // TCP connection identifier
	KeyClientAddr = "client_addr" // remote address of a relay client
	KeyPeerCount  = "peer_count"  // number of peers a frame was published to

	// ========================================================================
	// Frames / payloads
	// ========================================================================
	KeyTag           = "tag"            // log event tag
	KeyFrameLen      = "frame_len"      // wire frame payload length
	KeyPayloadLen    = "payload_len"    // decoded payload length in bytes
	KeyRedactionMode = "redaction_mode" // full, redact, none

	// ========================================================================
	// Plugins
	// ========================================================================
	KeyPlugin      = "plugin"       // plugin module name
	KeyPluginCount = "plugin_count" // number of plugins loaded

	// ========================================================================
	// APDU indexing
	// ========================================================================
	KeyDirection = "direction" // apdu direction: command or response
	KeyClaIns    = "cla_ins"   // CLA/INS byte pair, hex
	KeyHeader4   = "header4"   // first 4 header bytes, hex
	KeySW        = "sw"        // status word, hex

	// ========================================================================
	// HTTP (Admin API)
	// ========================================================================
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyBytesOut   = "bytes_out"
	KeyRemoteAddr = "remote_addr"
	KeyUsername   = "username"

	// ========================================================================
	// Operation metadata
	// ========================================================================
	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyComponent  = "component" // subsystem emitting the log line: main, relay, relaylog, retention, admin_api
	KeyCount      = "count"
)

// TraceID returns a slog.Attr for the request correlation id.
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// RouteID returns a slog.Attr for the Admin API route identifier.
func RouteID(id string) slog.Attr {
	return slog.String(KeyRouteID, id)
}

// Session returns a slog.Attr for the relay session id.
func Session(id uint8) slog.Attr {
	return slog.Int(KeySession, int(id))
}

// Origin returns a slog.Attr for the client/server side of a frame.
func Origin(origin string) slog.Attr {
	return slog.String(KeyOrigin, origin)
}

// ConnID returns a slog.Attr for a TCP connection identifier.
func ConnID(id string) slog.Attr {
	return slog.String(KeyConnID, id)
}

// ClientAddr returns a slog.Attr for a relay client's remote address.
func ClientAddr(addr string) slog.Attr {
	return slog.String(KeyClientAddr, addr)
}

// PeerCount returns a slog.Attr for the number of peers a frame reached.
func PeerCount(n int) slog.Attr {
	return slog.Int(KeyPeerCount, n)
}

// Tag returns a slog.Attr for a log event tag.
func Tag(tag string) slog.Attr {
	return slog.String(KeyTag, tag)
}

// FrameLen returns a slog.Attr for a wire frame payload length.
func FrameLen(n int) slog.Attr {
	return slog.Int(KeyFrameLen, n)
}

// PayloadLen returns a slog.Attr for a decoded payload length.
func PayloadLen(n int) slog.Attr {
	return slog.Int(KeyPayloadLen, n)
}

// RedactionMode returns a slog.Attr for the active redaction mode.
func RedactionMode(mode string) slog.Attr {
	return slog.String(KeyRedactionMode, mode)
}

// Plugin returns a slog.Attr for a plugin module name.
func Plugin(name string) slog.Attr {
	return slog.String(KeyPlugin, name)
}

// PluginCount returns a slog.Attr for the number of plugins loaded.
func PluginCount(n int) slog.Attr {
	return slog.Int(KeyPluginCount, n)
}

// Direction returns a slog.Attr for an APDU direction.
func Direction(dir string) slog.Attr {
	return slog.String(KeyDirection, dir)
}

// ClaIns returns a slog.Attr for a CLA/INS byte pair (hex string).
func ClaIns(hex string) slog.Attr {
	return slog.String(KeyClaIns, hex)
}

// Header4 returns a slog.Attr for the first 4 header bytes (hex string).
func Header4(hex string) slog.Attr {
	return slog.String(KeyHeader4, hex)
}

// SW returns a slog.Attr for an APDU status word (hex string).
func SW(hex string) slog.Attr {
	return slog.String(KeySW, hex)
}

// Method returns a slog.Attr for an HTTP method.
func Method(m string) slog.Attr {
	return slog.String(KeyMethod, m)
}

// Path returns a slog.Attr for an HTTP request path.
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Status returns a slog.Attr for an HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// BytesOut returns a slog.Attr for the number of response bytes written.
func BytesOut(n int) slog.Attr {
	return slog.Int(KeyBytesOut, n)
}

// RemoteAddr returns a slog.Attr for an HTTP client's remote address.
func RemoteAddr(addr string) slog.Attr {
	return slog.String(KeyRemoteAddr, addr)
}

// Username returns a slog.Attr for an admin username.
func Username(name string) slog.Attr {
	return slog.String(KeyUsername, name)
}

// DurationMs returns a slog.Attr for a duration in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Component returns a slog.Attr identifying the emitting subsystem.
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Count returns a slog.Attr for a generic count.
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}
