// Package auth implements the bearer token scheme used by the accounts
// endpoints: 64-character lowercase hex tokens handed to the client once,
// with only their SHA-256 digest stored server side.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"time"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 10 * time.Hour

// tokenPattern matches the wire form of a token.
var tokenPattern = regexp.MustCompile(`^[a-z0-9]{64}$`)

// GenerateToken returns a fresh plaintext token and its storage digest.
func GenerateToken() (plain, digest string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(raw)
	return plain, Digest(plain), nil
}

// Digest hashes a plaintext token into its stored form.
func Digest(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// ValidTokenFormat reports whether a credential looks like an issued token.
func ValidTokenFormat(plain string) bool {
	return tokenPattern.MatchString(plain)
}

// FormatExpiry renders a token expiry in the wire format used by the
// accounts responses (ISO-8601 with microseconds, UTC).
func FormatExpiry(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}
