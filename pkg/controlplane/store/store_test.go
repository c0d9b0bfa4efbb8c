package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *GORMStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.sqlite3")
	st, err := New(&Config{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestUser(t *testing.T, st *GORMStore, username string) *AdminUser {
	t.Helper()
	user := &AdminUser{
		Username:    username,
		PwSalt:      []byte("salt"),
		PwHash:      []byte("hash"),
		PwIters:     200_000,
		CreatedUnix: 1000,
	}
	require.NoError(t, st.CreateAdminUser(context.Background(), user))
	return user
}
