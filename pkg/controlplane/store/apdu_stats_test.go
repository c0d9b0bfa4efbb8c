package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedApduEvents(t *testing.T, st *GORMStore) {
	t.Helper()
	ctx := context.Background()
	rows := []ApduEvent{
		{TSUnix: 100, Direction: "R", ClaIns: strPtr("80CA"), Header4: strPtr("80CA0000"), ApduLen: 5, Origin: "client", Tag: "server"},
		{TSUnix: 110, Direction: "R", ClaIns: strPtr("80CA"), Header4: strPtr("80CA0000"), ApduLen: 5, Origin: "client", Tag: "server"},
		{TSUnix: 120, Direction: "R", ClaIns: strPtr("00A4"), Header4: strPtr("00A40400"), ApduLen: 7, Origin: "client", Tag: "server"},
		{TSUnix: 130, Direction: "C", SW: strPtr("9000"), ApduLen: 2, Origin: "server", Tag: "client"},
		{TSUnix: 140, Direction: "C", SW: strPtr("9000"), ApduLen: 2, Origin: "server", Tag: "client"},
		{TSUnix: 150, Direction: "C", SW: strPtr("6A82"), ApduLen: 2, Origin: "server", Tag: "client"},
	}
	for i := range rows {
		require.NoError(t, st.db.WithContext(ctx).Create(&rows[i]).Error)
	}
}

func TestApduStatsAggregatesTotalsAndBuckets(t *testing.T) {
	st := newTestStore(t)
	seedApduEvents(t, st)

	stats, err := st.ApduStats(context.Background(), 0, 1000, 10, TailFilter{})
	require.NoError(t, err)

	assert.EqualValues(t, 6, stats.Total)
	assert.EqualValues(t, 2, stats.SelectCount)

	require.Len(t, stats.TopClaIns, 2)
	assert.Equal(t, "80CA", stats.TopClaIns[0].Value)
	assert.EqualValues(t, 2, stats.TopClaIns[0].Count)

	require.Len(t, stats.TopHeader4, 2)
	assert.Equal(t, "80CA0000", stats.TopHeader4[0].Value)

	require.Len(t, stats.TopSW, 2)
	assert.Equal(t, "9000", stats.TopSW[0].Value)
	assert.EqualValues(t, 2, stats.TopSW[0].Count)
}

func TestApduStatsRespectsTopLimit(t *testing.T) {
	st := newTestStore(t)
	seedApduEvents(t, st)

	stats, err := st.ApduStats(context.Background(), 0, 1000, 1, TailFilter{})
	require.NoError(t, err)
	assert.Len(t, stats.TopClaIns, 1)
	assert.Len(t, stats.TopSW, 1)
}

func TestApduStatsRespectsTimeRangeAndFilter(t *testing.T) {
	st := newTestStore(t)
	seedApduEvents(t, st)

	stats, err := st.ApduStats(context.Background(), 0, 120, 10, TailFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)

	stats, err = st.ApduStats(context.Background(), 0, 1000, 10, TailFilter{Tag: "client"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.Empty(t, stats.TopClaIns)
}

func TestApduStatsEmptyStore(t *testing.T) {
	st := newTestStore(t)
	stats, err := st.ApduStats(context.Background(), 0, 1000, 10, TailFilter{})
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.SelectCount)
	assert.Empty(t, stats.TopClaIns)
	assert.Empty(t, stats.TopHeader4)
	assert.Empty(t, stats.TopSW)
}
