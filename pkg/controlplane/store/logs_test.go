package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionPtr(v uint8) *uint8 { return &v }

func TestPersistLogEventWithRawAndApdu(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	event := &LogEvent{TSUnix: 100, TSISO: "2026-01-01T00:00:00Z", Tag: "server", Origin: "client", Session: sessionPtr(1), ArgsJSON: "[]"}
	apduEvent := &ApduEvent{TSUnix: 100, Direction: "C", ApduLen: 5, Origin: "client", Tag: "server", Session: sessionPtr(1)}

	id, err := st.PersistLogEvent(ctx, event, []byte{0x00, 0xa4}, apduEvent)
	require.NoError(t, err)
	assert.NotZero(t, id)

	counts, err := st.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts.Logs)
	assert.EqualValues(t, 1, counts.ApduEvents)
	assert.EqualValues(t, 1, counts.Payloads)
	assert.EqualValues(t, 100, counts.LatestLogUnix)
	assert.EqualValues(t, 100, counts.LatestApduUnix)
}

func TestPersistLogEventWithoutRawOrApdu(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	event := &LogEvent{TSUnix: 50, TSISO: "x", Tag: "server", Origin: "client", ArgsJSON: "[]"}
	_, err := st.PersistLogEvent(ctx, event, nil, nil)
	require.NoError(t, err)

	counts, err := st.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts.Logs)
	assert.EqualValues(t, 0, counts.ApduEvents)
	assert.EqualValues(t, 0, counts.Payloads)
}

func seedLogs(t *testing.T, st *GORMStore) {
	t.Helper()
	ctx := context.Background()
	rows := []LogEvent{
		{TSUnix: 100, TSISO: "a", Tag: "server", Origin: "client", Session: sessionPtr(1), ArgsJSON: "[]"},
		{TSUnix: 200, TSISO: "b", Tag: "client", Origin: "server", Session: sessionPtr(2), ArgsJSON: "[]"},
		{TSUnix: 300, TSISO: "c", Tag: "server", Origin: "client", Session: sessionPtr(1), ArgsJSON: "[]"},
	}
	for i := range rows {
		_, err := st.PersistLogEvent(ctx, &rows[i], nil, nil)
		require.NoError(t, err)
	}
}

func TestTailLogsOrdersNewestFirstAndLimits(t *testing.T) {
	st := newTestStore(t)
	seedLogs(t, st)

	rows, err := st.TailLogs(context.Background(), 2, TailFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.EqualValues(t, 300, rows[0].TSUnix)
	assert.EqualValues(t, 200, rows[1].TSUnix)
}

func TestTailLogsFiltersByTagOriginSession(t *testing.T) {
	st := newTestStore(t)
	seedLogs(t, st)
	ctx := context.Background()

	rows, err := st.TailLogs(ctx, 10, TailFilter{Tag: "server"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = st.TailLogs(ctx, 10, TailFilter{Origin: "server"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	sess := uint8(2)
	rows, err = st.TailLogs(ctx, 10, TailFilter{Session: &sess})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 200, rows[0].TSUnix)
}

func TestExportLogsStreamsRangeAscending(t *testing.T) {
	st := newTestStore(t)
	seedLogs(t, st)

	var seen []int64
	err := st.ExportLogs(context.Background(), 100, 300, TailFilter{}, func(e LogEvent) error {
		seen = append(seen, e.TSUnix)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 200, 300}, seen)
}

func TestExportLogsRespectsRangeBounds(t *testing.T) {
	st := newTestStore(t)
	seedLogs(t, st)

	var seen []int64
	err := st.ExportLogs(context.Background(), 150, 300, TailFilter{}, func(e LogEvent) error {
		seen = append(seen, e.TSUnix)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{200, 300}, seen)
}

func TestExportLogsAbortsOnCallbackError(t *testing.T) {
	st := newTestStore(t)
	seedLogs(t, st)

	boom := assert.AnError
	var calls int
	err := st.ExportLogs(context.Background(), 100, 300, TailFilter{}, func(e LogEvent) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDeleteAgedLogsRemovesOnlyOlderThanCutoff(t *testing.T) {
	st := newTestStore(t)
	seedLogs(t, st)
	ctx := context.Background()

	require.NoError(t, st.DeleteAgedLogs(ctx, 200))

	rows, err := st.TailLogs(ctx, 10, TailFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.EqualValues(t, 300, rows[0].TSUnix)
	assert.EqualValues(t, 200, rows[1].TSUnix)
}

func TestDeleteAgedLogsLeavesPayloadsBehind(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	event := &LogEvent{TSUnix: 1, TSISO: "a", Tag: "server", Origin: "client", ArgsJSON: "[]"}
	_, err := st.PersistLogEvent(ctx, event, []byte{0x01}, nil)
	require.NoError(t, err)

	require.NoError(t, st.DeleteAgedLogs(ctx, 1000))

	counts, err := st.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, counts.Logs)
	assert.EqualValues(t, 1, counts.Payloads)
}

func TestCountsOnEmptyStore(t *testing.T) {
	st := newTestStore(t)
	counts, err := st.Counts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts.Logs)
	assert.Zero(t, counts.ApduEvents)
	assert.Zero(t, counts.Payloads)
	assert.Zero(t, counts.LatestLogUnix)
	assert.Zero(t, counts.LatestApduUnix)
}
