package auth

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordAndVerify(t *testing.T) {
	salt, hash, iters, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.Len(t, salt, saltSize)
	assert.GreaterOrEqual(t, iters, MinIterations)

	assert.True(t, VerifyPassword("hunter2", salt, hash, iters))
	assert.False(t, VerifyPassword("wrong", salt, hash, iters))
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	salt1, _, _, err := HashPassword("hunter2")
	require.NoError(t, err)
	salt2, _, _, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, salt1, salt2)
}

func TestNewTokenHashMatchesSHA256(t *testing.T) {
	plaintext, hash, err := NewToken()
	require.NoError(t, err)
	assert.NotEmpty(t, plaintext)
	assert.Len(t, hash, 32)
	sum := sha256.Sum256([]byte(plaintext))
	assert.Equal(t, sum[:], hash)
}

func TestNewTokenUnique(t *testing.T) {
	t1, _, err := NewToken()
	require.NoError(t, err)
	t2, _, err := NewToken()
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)
}
