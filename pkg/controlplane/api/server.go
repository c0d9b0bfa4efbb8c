// Package api implements the relay's Admin API: a separate HTTP server,
// authenticated by opaque bearer tokens, answering queries against the Log
// Store.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/nfcgate/relay/internal/logger"
	"github.com/nfcgate/relay/pkg/controlplane/store"
)

// Server is the Admin API's HTTP server.
type Server struct {
	server       *http.Server
	config       Config
	shutdownOnce sync.Once
}

// NewServer builds an Admin API server bound to the given Log Store. st may
// be nil, in which case every Log-Store-backed endpoint responds with
// log database not configured (503).
func NewServer(config Config, st *store.GORMStore) *Server {
	config.applyDefaults()

	router := NewRouter(config, st)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{server: httpServer, config: config}
}

// Serve starts the Admin API server and blocks until ctx is cancelled or an
// unrecoverable error occurs.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("admin API listening", logger.Component("admin_api"))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("admin API server failed: %w", err)
	}
}

// Stop gracefully shuts down the server. Safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.server.Shutdown(ctx)
	})
	return err
}

// Port returns the configured listen port.
func (s *Server) Port() int {
	return s.config.Port
}
