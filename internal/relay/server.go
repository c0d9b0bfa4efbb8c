package relay

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/nfcgate/relay/internal/frame"
	"github.com/nfcgate/relay/internal/logger"
	"github.com/nfcgate/relay/internal/metrics"
	"github.com/nfcgate/relay/internal/plugin"
	"github.com/nfcgate/relay/internal/relaylog"
	"github.com/nfcgate/relay/internal/session"
)

// IdleTimeout is the maximum duration a connection may sit without a
// complete frame arriving before the server closes it.
const IdleTimeout = 300 * time.Second

// Config configures the Relay Server's listener.
type Config struct {
	// Addr is the TCP address to listen on, e.g. "0.0.0.0:5567".
	Addr string
	// TLSConfig, when non-nil, is used to wrap every accepted connection in
	// server-side TLS before the per-client loop begins.
	TLSConfig *tls.Config
}

// Server is the relay's TCP acceptor and per-client frame loop.
type Server struct {
	config   Config
	registry *session.Registry
	chain    *plugin.Chain
	log      *relaylog.Logger
}

// New creates a Server. chain may be a zero-length chain (no plugins).
func New(config Config, registry *session.Registry, chain *plugin.Chain, log *relaylog.Logger) *Server {
	return &Server{config: config, registry: registry, chain: chain, log: log}
}

// Serve listens on the configured address and runs the accept loop until
// ctx is cancelled or the listener fails. Each accepted connection is
// handled on its own goroutine.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("relay: listen on %s: %w", s.config.Addr, err)
	}
	defer listener.Close()

	logger.Info("relay server listening", logger.Component("relay"))

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				logger.Debug("accept error", logger.Component("relay"), logger.Err(err))
				continue
			}
		}

		if s.config.TLSConfig != nil {
			conn = tls.Server(conn, s.config.TLSConfig)
		}

		go s.handleConn(conn)
	}
}

// handleConn runs the per-client loop for one accepted connection.
// All socket errors are treated as an ordinary disconnect.
func (s *Server) handleConn(conn net.Conn) {
	client := NewClient(conn)
	metrics.ConnectedClients.Inc()
	defer func() {
		if id, ok := client.Session(); ok {
			s.registry.Leave(client, id)
		}
		client.Close()
		metrics.ConnectedClients.Dec()
	}()

	s.log.Log("server", client.Addr(), nil, relaylog.StrArg("connected"))

	for {
		if err := conn.SetReadDeadline(time.Now().Add(IdleTimeout)); err != nil {
			return
		}

		f, err := frame.Read(conn)
		if err != nil {
			return
		}

		sid := f.SessionID
		s.log.Log("server", client.Addr(), &sid,
			relaylog.StrArg("server"), relaylog.StrArg("data:"), relaylog.BlobArg(f.Payload))

		currentID, hasSession := client.Session()

		if f.PayloadLength == 0 || (f.SessionID == 0 && !hasSession) {
			return
		}

		// Session id 0 never enters the registry: an already-associated
		// client sending session byte 0 keeps its current association
		// instead of being rejoined under 0.
		publishID := currentID
		if f.SessionID != 0 && (!hasSession || f.SessionID != currentID) {
			if hasSession {
				s.registry.Leave(client, currentID)
			}
			s.registry.Join(client, f.SessionID)
			client.SetSession(f.SessionID)
			publishID = f.SessionID
		}

		filtered := s.chain.Apply(func(pluginName string, args ...any) {
			s.log.Log(pluginName, client.Addr(), &sid, renderPluginArgs(args)...)
		}, f.Payload, client.State())

		n := s.registry.Publish(publishID, filtered, client)
		metrics.FramesRelayed.WithLabelValues("server").Inc()
		s.log.Log("server", client.Addr(), &sid, relaylog.StrArg(fmt.Sprintf("Publish reached %d clients", n)))
	}
}

// renderPluginArgs converts a plugin's heterogeneous log arguments into
// relaylog.Arg values: strings pass through as StrArg, byte slices as
// BlobArg, everything else is formatted with its default string form.
func renderPluginArgs(args []any) []relaylog.Arg {
	out := make([]relaylog.Arg, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case string:
			out[i] = relaylog.StrArg(v)
		case []byte:
			out[i] = relaylog.BlobArg(v)
		default:
			out[i] = relaylog.StrArg(fmt.Sprintf("%v", v))
		}
	}
	return out
}
