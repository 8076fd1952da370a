package utils

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for reset secrets
	"encoding/hex"  // hex encoding of secrets and digests
)

// NewResetSecret returns a cryptographically random password-reset
// secret.  The secret is 20 random bytes hex-encoded (40 characters, 160
// bits of entropy).  The plaintext is handed to the mail worker exactly
// once; only its SHA-256 hash is ever persisted.
func NewResetSecret() (string, error) {
	return randomHex(20)
}

// HashResetSecret returns the SHA-256 hash of a raw reset secret as a
// hex string.  Storing only the hash means a leaked database row cannot
// be used to reset an account's password.
func HashResetSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
