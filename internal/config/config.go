// Package config loads the relay's entire runtime configuration surface
// from environment variables via viper.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/nfcgate/relay/internal/relaylog"
)

const envPrefix = "NFCGATE"

// Config is the relay's complete environment-derived configuration.
type Config struct {
	LogDir                string
	LogBytes              relaylog.RedactionMode
	LogDB                 string
	RetentionDBDays       int
	RetentionJSONLDays    int
	RetentionSweepSeconds int
	AdminHTTPPort         int
	AdminTokenTTLSeconds  int
}

// Load reads NFCGATE_* environment variables, applying the defaults and
// coercion rules.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	for _, key := range []string{
		"log_dir", "log_bytes", "log_db",
		"retention_db_days", "retention_jsonl_days", "retention_sweep_seconds",
		"admin_http_port", "admin_token_ttl_seconds",
	} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	v.SetDefault("log_dir", "logs")
	v.SetDefault("log_bytes", "full")
	v.SetDefault("retention_db_days", 0)
	v.SetDefault("retention_jsonl_days", 0)
	v.SetDefault("retention_sweep_seconds", 3600)
	v.SetDefault("admin_http_port", 0)
	v.SetDefault("admin_token_ttl_seconds", 86400)

	logDir := v.GetString("log_dir")

	mode, ok := relaylog.ParseRedactionMode(v.GetString("log_bytes"))
	if !ok {
		return Config{}, fmt.Errorf("config: invalid %s_LOG_BYTES %q", envPrefix, v.GetString("log_bytes"))
	}

	logDB := v.GetString("log_db")
	if logDB == "" {
		logDB = filepath.Join(logDir, "logs.sqlite3")
	}

	sweepSeconds := v.GetInt("retention_sweep_seconds")
	if sweepSeconds <= 0 {
		sweepSeconds = 3600
	}

	ttlSeconds := v.GetInt("admin_token_ttl_seconds")
	if ttlSeconds <= 0 {
		ttlSeconds = 86400
	}

	return Config{
		LogDir:                logDir,
		LogBytes:              mode,
		LogDB:                 logDB,
		RetentionDBDays:       v.GetInt("retention_db_days"),
		RetentionJSONLDays:    v.GetInt("retention_jsonl_days"),
		RetentionSweepSeconds: sweepSeconds,
		AdminHTTPPort:         v.GetInt("admin_http_port"),
		AdminTokenTTLSeconds:  ttlSeconds,
	}, nil
}

// RetentionDBDuration converts RetentionDBDays to a time.Duration, 0 when
// disabled.
func (c Config) RetentionDBDuration() time.Duration {
	return time.Duration(c.RetentionDBDays) * 24 * time.Hour
}

// RetentionJSONLDuration converts RetentionJSONLDays to a time.Duration, 0
// when disabled.
func (c Config) RetentionJSONLDuration() time.Duration {
	return time.Duration(c.RetentionJSONLDays) * 24 * time.Hour
}

// RetentionSweepInterval converts RetentionSweepSeconds to a time.Duration.
func (c Config) RetentionSweepInterval() time.Duration {
	return time.Duration(c.RetentionSweepSeconds) * time.Second
}

// AdminTokenTTL converts AdminTokenTTLSeconds to a time.Duration.
func (c Config) AdminTokenTTL() time.Duration {
	return time.Duration(c.AdminTokenTTLSeconds) * time.Second
}
