package commands

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nfcgate/relay/internal/apdu"
	"github.com/nfcgate/relay/internal/config"
	"github.com/nfcgate/relay/internal/logger"
	"github.com/nfcgate/relay/internal/plugin"
	"github.com/nfcgate/relay/internal/relay"
	"github.com/nfcgate/relay/internal/relaylog"
	"github.com/nfcgate/relay/internal/retention"
	"github.com/nfcgate/relay/internal/session"
	"github.com/nfcgate/relay/pkg/controlplane/api"
	"github.com/nfcgate/relay/pkg/controlplane/store"
)

// RelayAddr is the Relay Server's default listen address.
const RelayAddr = "0.0.0.0:5567"

func runServe(cmd *cobra.Command, args []string) error {
	if err := logger.Init(logger.Config{Level: "INFO", Format: "text", Output: "stdout"}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	tlsConfig, err := loadTLSConfig(cmd)
	if err != nil {
		return err
	}

	chain, err := buildChain(args)
	if err != nil {
		return err
	}

	st, err := store.New(&store.Config{Path: cfg.LogDB})
	if err != nil {
		return fmt.Errorf("failed to open log store: %w", err)
	}

	fileLog := relaylog.NewFileLog(filepath.Clean(cfg.LogDir))
	domainLogger := relaylog.New(cfg.LogBytes, st, apdu.New(apdu.NoopDecoder{}), fileLog)

	registry := session.New(func(tag, origin string, sessionID *uint8, args ...any) {
		domainLogger.Log(tag, origin, sessionID, toRelaylogArgs(args)...)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	relayServer := relay.New(relay.Config{Addr: RelayAddr, TLSConfig: tlsConfig}, registry, chain, domainLogger)

	sweeper := retention.New(retention.Config{
		DBRetention:    cfg.RetentionDBDuration(),
		JSONLRetention: cfg.RetentionJSONLDuration(),
		Interval:       cfg.RetentionSweepInterval(),
	}, st, domainLogger)

	errCh := make(chan error, 2)

	go func() {
		errCh <- relayServer.Serve(ctx)
	}()
	go sweeper.Run(ctx)

	var adminServer *api.Server
	if cfg.AdminHTTPPort > 0 {
		adminServer = api.NewServer(api.Config{
			Port:                  cfg.AdminHTTPPort,
			TokenTTL:              cfg.AdminTokenTTL(),
			DecoderAvailable:      false,
			RedactionMode:         string(cfg.LogBytes),
			RetentionDBDays:       cfg.RetentionDBDays,
			RetentionJSONLDays:    cfg.RetentionJSONLDays,
			RetentionSweepSeconds: cfg.RetentionSweepSeconds,
		}, st)
		go func() {
			errCh <- adminServer.Serve(ctx)
		}()
		logger.Info("admin API enabled", logger.Component("main"))
	} else {
		logger.Info("admin API disabled", logger.Component("main"))
	}

	logger.Info("relay server starting", logger.Component("main"))

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received", logger.Component("main"))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

// loadTLSConfig builds a server-side TLS config from the --tls/--tls_cert/
// --tls_key flags. It returns (nil, nil) when --tls is not set.
func loadTLSConfig(cmd *cobra.Command) (*tls.Config, error) {
	enabled, _ := cmd.Flags().GetBool("tls")
	if !enabled {
		return nil, nil
	}

	certPath, _ := cmd.Flags().GetString("tls_cert")
	keyPath, _ := cmd.Flags().GetString("tls_key")
	if certPath == "" || keyPath == "" {
		os.Exit(1)
	}

	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		os.Exit(1)
	}

	return &tls.Config{Certificates: []tls.Certificate{cert}}, nil
}

// buildChain resolves the positional plugin module names against a freshly
// created plugin registry that has no plugins registered.
func buildChain(pluginNames []string) (*plugin.Chain, error) {
	plugins, err := plugin.NewRegistry().Resolve(pluginNames)
	if err != nil {
		return nil, err
	}
	return plugin.NewChain(plugins), nil
}

// toRelaylogArgs converts a session.LogFunc's heterogeneous args into
// relaylog.Arg values: strings as StrArg, byte slices as BlobArg, anything
// else formatted with its default string form.
func toRelaylogArgs(args []any) []relaylog.Arg {
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
