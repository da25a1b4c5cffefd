package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	// ResetTTL is the validity window of a reset secret, independent of the
	// session-token TTL.
	ResetTTL = 30 * time.Minute

	resetSecretBytes = 32
)

// NewResetSecret returns a URL-safe random secret and the hex SHA-256 digest
// under which it is stored. Only the digest is ever persisted; lookups
// re-hash the presented secret.
func NewResetSecret() (secret, secretHash string, err error) {
	buf := make([]byte, resetSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate reset secret: %w", err)
	}
	secret = base64.RawURLEncoding.EncodeToString(buf)
	return secret, HashResetSecret(secret), nil
}

// HashResetSecret maps a presented secret to its storage digest.
func HashResetSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
