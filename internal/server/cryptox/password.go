// Package cryptox implements the credential pipeline: per-user salt
// generation, password hashing, and verification.
//
// The stored hash is base64(SHA-512(password + salt)). Login recomputes the
// same derivation against the stored salt, so changing this format would
// invalidate every persisted credential.
package cryptox

import (
	"crypto/sha512"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

// GenerateSalt returns a fresh 32-character hex salt. Salts are drawn from
// a cryptographically strong random source and are unique per user.
func GenerateSalt() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// HashPassword derives the stored credential hash from a plaintext password
// and a per-user salt. The derivation is deterministic: the same inputs
// always produce the same output.
func HashPassword(password string, salt string) string {
	sum := sha512.Sum512([]byte(password + salt))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// VerifyPassword recomputes the hash for the candidate password and compares
// it byte-exact to the expected hash.
func VerifyPassword(password string, salt string, expectedHash string) bool {
	return HashPassword(password, salt) == expectedHash
}
