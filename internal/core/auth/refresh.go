package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// NewRefreshToken returns an opaque 256-bit token. Refresh credentials are
// stateful (looked up in the refresh_tokens table), so they carry no claims.
func NewRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
