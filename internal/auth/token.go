package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Session token format: sw_<64 hex chars> (32 random bytes).
// The "sw_" prefix makes leaked tokens easy to spot in logs and scanners.
const tokenSecretBytes = 32

var (
	// ErrInvalidTokenFormat indicates a token that cannot be a session token.
	ErrInvalidTokenFormat = errors.New("invalid session token format")

	tokenPattern = regexp.MustCompile(`^sw_[a-f0-9]{64}$`)
)

// NewSessionToken generates an opaque session token from the system CSPRNG.
// Callers must treat the token as opaque; only the session store can map it
// back to a subject.
func NewSessionToken() (string, error) {
	secret := make([]byte, tokenSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return "sw_" + hex.EncodeToString(secret), nil
}

// ValidateTokenFormat reports whether a string is shaped like a session token.
// Used to reject garbage before touching the session store.
func ValidateTokenFormat(token string) bool {
	return tokenPattern.MatchString(token)
}
