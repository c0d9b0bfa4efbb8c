package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfcgate/relay/internal/relaylog"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NFCGATE_LOG_DIR", "NFCGATE_LOG_BYTES", "NFCGATE_LOG_DB",
		"NFCGATE_RETENTION_DB_DAYS", "NFCGATE_RETENTION_JSONL_DAYS",
		"NFCGATE_RETENTION_SWEEP_SECONDS", "NFCGATE_ADMIN_HTTP_PORT",
		"NFCGATE_ADMIN_TOKEN_TTL_SECONDS",
	} {
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, relaylog.RedactionFull, cfg.LogBytes)
	assert.Equal(t, "logs/logs.sqlite3", cfg.LogDB)
	assert.Equal(t, 0, cfg.RetentionDBDays)
	assert.Equal(t, 0, cfg.RetentionJSONLDays)
	assert.Equal(t, 3600, cfg.RetentionSweepSeconds)
	assert.Equal(t, 0, cfg.AdminHTTPPort)
	assert.Equal(t, 86400, cfg.AdminTokenTTLSeconds)
}

func TestLoadNonPositiveSweepSecondsCoercedToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("NFCGATE_RETENTION_SWEEP_SECONDS", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3600, cfg.RetentionSweepSeconds)
}

func TestLoadNonPositiveTokenTTLCoercedToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("NFCGATE_ADMIN_TOKEN_TTL_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 86400, cfg.AdminTokenTTLSeconds)
}

func TestLoadInvalidLogBytesFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("NFCGATE_LOG_BYTES", "bogus")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("NFCGATE_LOG_DIR", "/var/log/nfcgate")
	t.Setenv("NFCGATE_LOG_BYTES", "redact")
	t.Setenv("NFCGATE_LOG_DB", "/var/log/nfcgate/custom.sqlite3")
	t.Setenv("NFCGATE_RETENTION_DB_DAYS", "30")
	t.Setenv("NFCGATE_ADMIN_HTTP_PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/log/nfcgate", cfg.LogDir)
	assert.Equal(t, relaylog.RedactionRedact, cfg.LogBytes)
	assert.Equal(t, "/var/log/nfcgate/custom.sqlite3", cfg.LogDB)
	assert.Equal(t, 30, cfg.RetentionDBDays)
	assert.Equal(t, 8080, cfg.AdminHTTPPort)
}
