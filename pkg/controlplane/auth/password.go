// Package auth implements the Admin API's password hashing and bearer
// token primitives.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// MinIterations is the floor mandated for PBKDF2-HMAC-SHA-256.
const MinIterations = 200_000

const saltSize = 16
const hashSize = 32

// HashPassword derives a PBKDF2-HMAC-SHA-256 hash of password using a fresh
// random salt and MinIterations iterations.
func HashPassword(password string) (salt, hash []byte, iterations int, err error) {
	salt = make([]byte, saltSize)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, 0, fmt.Errorf("generate salt: %w", err)
	}
	hash = pbkdf2.Key([]byte(password), salt, MinIterations, hashSize, sha256.New)
	return salt, hash, MinIterations, nil
}

// VerifyPassword reports whether password matches the stored salt/hash
// using the given iteration count, in constant time.
func VerifyPassword(password string, salt, storedHash []byte, iterations int) bool {
	computed := pbkdf2.Key([]byte(password), salt, iterations, len(storedHash), sha256.New)
	return subtle.ConstantTimeCompare(computed, storedHash) == 1
}

// NewToken generates a fresh opaque bearer token and returns both the
// plaintext (to hand back to the caller once) and its SHA-256 hash (the
// only form ever persisted).
func NewToken() (plaintext string, hash []byte, err error) {
	raw := make([]byte, 32)
	if _, err = rand.Read(raw); err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	plaintext = hex.EncodeToString(raw)
	sum := sha256.Sum256([]byte(plaintext))
	return plaintext, sum[:], nil
}
