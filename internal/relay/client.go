// Package relay implements the relay core: the per-connection accept loop
// that reads framed payloads from connected clients, runs them through the
// plugin chain, and publishes the result to the other members of the
// client's current session.
package relay

import (
	"net"
	"sync"

	"github.com/nfcgate/relay/internal/frame"
)

// Client is one connected relay client. It satisfies session.Member so the
// Registry can publish frames to it directly.
type Client struct {
	conn net.Conn
	addr string

	mu        sync.Mutex
	sessionID uint8
	hasSession bool
	state     any

	writeMu sync.Mutex
}

// NewClient wraps an accepted connection.
func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn, addr: conn.RemoteAddr().String()}
}

// Addr identifies the client for logging (session.Member).
func (c *Client) Addr() string { return c.addr }

// WriteFrame writes payload to the client using the server-output framing
// (session.Member). Serialized under writeMu so concurrent Publish calls
// from different origin goroutines never interleave a header and payload
// on the wire.
func (c *Client) WriteFrame(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return frame.WriteOut(c.conn, payload)
}

// Session returns the client's current session id and whether it has ever
// joined one.
func (c *Client) Session() (id uint8, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID, c.hasSession
}

// SetSession records the client's current session id.
func (c *Client) SetSession(id uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = id
	c.hasSession = true
}

// State returns the client's opaque plugin scratch bag, allocating a fresh
// empty map on first use.
func (c *Client) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		c.state = make(map[string]any)
	}
	return c.state
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
