package store

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAdminUserRejectsDuplicateUsername(t *testing.T) {
	st := newTestStore(t)
	newTestUser(t, st, "alice")

	dup := &AdminUser{Username: "alice", PwSalt: []byte("s"), PwHash: []byte("h"), PwIters: 1, CreatedUnix: 1}
	err := st.CreateAdminUser(context.Background(), dup)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestGetAdminUserByUsernameNotFound(t *testing.T) {
	st := newTestStore(t)
	_, err := st.GetAdminUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCountActiveAdminsExcludesDisabled(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	newTestUser(t, st, "alice")
	bob := newTestUser(t, st, "bob")

	n, err := st.CountActiveAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	bob.Disabled = true
	require.NoError(t, st.UpdateAdminUser(ctx, bob, false))

	n, err = st.CountActiveAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestUpdateAdminUserRevokesTokensWhenRequested(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, st, "alice")

	require.NoError(t, st.CreateAdminToken(ctx, &AdminToken{
		TokenHash: []byte("abc"), UserID: user.ID, CreatedUnix: 1, ExpiresUnix: 9999999999,
	}))

	require.NoError(t, st.UpdateAdminUser(ctx, user, true))

	var count int64
	require.NoError(t, st.db.Model(&AdminToken{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteAdminUserRemovesUserAndTokens(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, st, "alice")
	require.NoError(t, st.CreateAdminToken(ctx, &AdminToken{
		TokenHash: []byte("abc"), UserID: user.ID, CreatedUnix: 1, ExpiresUnix: 9999999999,
	}))

	require.NoError(t, st.DeleteAdminUser(ctx, user.ID))

	_, err := st.GetAdminUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	var count int64
	require.NoError(t, st.db.Model(&AdminToken{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteAdminUserNotFound(t *testing.T) {
	st := newTestStore(t)
	err := st.DeleteAdminUser(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateAndLookupAdminToken(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, st, "alice")

	plaintext := "token-plaintext"
	hash := sha256.Sum256([]byte(plaintext))
	require.NoError(t, st.CreateAdminToken(ctx, &AdminToken{
		TokenHash: hash[:], UserID: user.ID, CreatedUnix: 1000, ExpiresUnix: 2000,
	}))

	lookup, err := st.LookupAdminToken(ctx, plaintext, 1500)
	require.NoError(t, err)
	assert.Equal(t, user.ID, lookup.User.ID)

	_, err = st.LookupAdminToken(ctx, plaintext, 2500)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = st.LookupAdminToken(ctx, "wrong-plaintext", 1500)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestDeleteExpiredTokensRemovesOnlyExpired(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, st, "alice")

	require.NoError(t, st.CreateAdminToken(ctx, &AdminToken{
		TokenHash: []byte("expired"), UserID: user.ID, CreatedUnix: 1, ExpiresUnix: 100,
	}))
	require.NoError(t, st.CreateAdminToken(ctx, &AdminToken{
		TokenHash: []byte("active"), UserID: user.ID, CreatedUnix: 1, ExpiresUnix: 9999999999,
	}))

	require.NoError(t, st.DeleteExpiredTokens(ctx, 500))

	var count int64
	require.NoError(t, st.db.Model(&AdminToken{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
