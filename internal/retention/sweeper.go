// Package retention implements the background sweep that ages out old log
// rows and rolling-file-log month directories.
package retention

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/nfcgate/relay/internal/logger"
	"github.com/nfcgate/relay/internal/metrics"
	"github.com/nfcgate/relay/internal/relaylog"
)

// DefaultSweepInterval is used whenever the configured interval is not
// positive.
const DefaultSweepInterval = 3600 * time.Second

const warmup = 5 * time.Second

// Store is the subset of the Log Store the sweeper needs.
type Store interface {
	DeleteAgedLogs(ctx context.Context, cutoffUnix int64) error
}

// Config configures the Sweeper.
type Config struct {
	// DBRetention is how long logs/apdu_events rows are kept. Zero disables
	// database row aging.
	DBRetention time.Duration
	// JSONLRetention is how long rolling-file-log month directories are
	// kept. Zero disables file pruning.
	JSONLRetention time.Duration
	// Interval is the time between sweeps. Values <= 0 are coerced to
	// DefaultSweepInterval.
	Interval time.Duration
}

// Enabled reports whether the sweeper has any retention policy configured.
func (c Config) Enabled() bool {
	return c.DBRetention > 0 || c.JSONLRetention > 0
}

func (c Config) interval() time.Duration {
	if c.Interval <= 0 {
		return DefaultSweepInterval
	}
	return c.Interval
}

// Sweeper periodically deletes aged Log Store rows and rolling-file-log
// month directories. A zero Sweeper is not usable; use New.
type Sweeper struct {
	config Config
	store  Store
	log    *relaylog.Logger
}

// New creates a Sweeper. store and log's FileLog may be nil if the
// corresponding retention policy is never enabled.
func New(config Config, store Store, log *relaylog.Logger) *Sweeper {
	return &Sweeper{config: config, store: store, log: log}
}

// Run blocks, sweeping on config.interval() until ctx is cancelled. If the
// sweeper has no retention policy configured, Run returns immediately
// without starting a ticker.
func (s *Sweeper) Run(ctx context.Context) {
	if !s.config.Enabled() {
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(warmup):
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.config.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs one pass of database row aging and file-log directory
// pruning. Any failure is logged and swallowed; a failed sweep never
// crashes the relay, and the next tick tries again.
func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now().UTC()
	ok := true

	if s.config.DBRetention > 0 && s.store != nil {
		cutoff := now.Add(-s.config.DBRetention).Unix()
		del := func() error { return s.store.DeleteAgedLogs(ctx, cutoff) }
		var err error
		if s.log != nil {
			s.log.WithLock(func() { err = del() })
		} else {
			err = del()
		}
		if err != nil {
			logger.Warn("retention sweep: delete aged logs failed",
				logger.Component("retention"), logger.Err(err))
			ok = false
		}
	}

	if s.config.JSONLRetention > 0 && s.log != nil && s.log.File() != nil {
		if err := pruneMonthDirs(s.log.File().Dir(), now.Add(-s.config.JSONLRetention)); err != nil {
			logger.Warn("retention sweep: prune month directories failed",
				logger.Component("retention"), logger.Err(err))
			ok = false
		}
	}

	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	metrics.RetentionSweeps.WithLabelValues(outcome).Inc()
}

// pruneMonthDirs removes every "<dir>/YYYY-MM" entry whose last second
// falls before cutoff.
func pruneMonthDirs(dir string, cutoff time.Time) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		month, err := time.Parse("2006-01", entry.Name())
		if err != nil {
			continue
		}
		monthEnd := month.AddDate(0, 1, 0).Add(-time.Second)
		if monthEnd.Before(cutoff) {
			if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
