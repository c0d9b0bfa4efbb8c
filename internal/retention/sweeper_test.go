package retention

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfcgate/relay/internal/relaylog"
)

type fakeStore struct {
	calls   int
	cutoffs []int64
}

func (f *fakeStore) DeleteAgedLogs(ctx context.Context, cutoffUnix int64) error {
	f.calls++
	f.cutoffs = append(f.cutoffs, cutoffUnix)
	return nil
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{DBRetention: time.Hour}.Enabled())
	assert.True(t, Config{JSONLRetention: time.Hour}.Enabled())
}

func TestConfigIntervalCoercesNonPositive(t *testing.T) {
	assert.Equal(t, DefaultSweepInterval, Config{}.interval())
	assert.Equal(t, DefaultSweepInterval, Config{Interval: -1}.interval())
	assert.Equal(t, 10*time.Second, Config{Interval: 10 * time.Second}.interval())
}

func TestRunDoesNothingWhenDisabled(t *testing.T) {
	st := &fakeStore{}
	s := New(Config{}, st, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Run(ctx)

	assert.Equal(t, 0, st.calls)
}

func TestSweepDeletesAgedLogsUnderLoggerLock(t *testing.T) {
	st := &fakeStore{}
	log := relaylog.New(relaylog.RedactionFull, nil, nil, nil)
	s := New(Config{DBRetention: 24 * time.Hour}, st, log)

	before := time.Now().Add(-23 * time.Hour).Unix()
	s.sweep(context.Background())

	require.Equal(t, 1, st.calls)
	assert.GreaterOrEqual(t, st.cutoffs[0], before-3600)
}

func TestSweepSkipsDBWhenStoreNil(t *testing.T) {
	s := New(Config{DBRetention: 24 * time.Hour}, nil, nil)
	require.NotPanics(t, func() { s.sweep(context.Background()) })
}

func TestPruneMonthDirsRemovesOldMonths(t *testing.T) {
	dir := t.TempDir()
	oldMonth := filepath.Join(dir, "2020-01")
	newMonth := filepath.Join(dir, "2099-01")
	require.NoError(t, os.MkdirAll(oldMonth, 0755))
	require.NoError(t, os.MkdirAll(newMonth, 0755))

	require.NoError(t, pruneMonthDirs(dir, time.Now()))

	_, err := os.Stat(oldMonth)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(newMonth)
	assert.NoError(t, err)
}

func TestPruneMonthDirsIgnoresNonMonthEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs.sqlite3"), []byte("x"), 0644))

	require.NoError(t, pruneMonthDirs(dir, time.Now()))

	_, err := os.Stat(filepath.Join(dir, "logs.sqlite3"))
	assert.NoError(t, err)
}

func TestPruneMonthDirsMissingDirIsNoop(t *testing.T) {
	require.NoError(t, pruneMonthDirs(filepath.Join(t.TempDir(), "missing"), time.Now()))
}

func TestSweepPrunesFileLogMonthDirs(t *testing.T) {
	dir := t.TempDir()
	oldMonth := filepath.Join(dir, "2020-01")
	require.NoError(t, os.MkdirAll(oldMonth, 0755))

	file := relaylog.NewFileLog(dir)
	log := relaylog.New(relaylog.RedactionFull, nil, nil, file)
	s := New(Config{JSONLRetention: 24 * time.Hour}, nil, log)

	s.sweep(context.Background())

	_, err := os.Stat(oldMonth)
	assert.True(t, os.IsNotExist(err))
}
