package auth

import (
	"crypto/rand"
	"encoding/hex"
)

const (
	refreshTokenBytes = 32
	sessionIDBytes    = 20
)

// NewRefreshToken mints the opaque token a client trades for fresh access
// tokens. Hex keeps it safe in headers and logs.
func NewRefreshToken() (string, error) {
	return randomHex(refreshTokenBytes)
}

// NewSessionID mints the redis key under which a session is stored.
func NewSessionID() (string, error) {
	return randomHex(sessionIDBytes)
}

func randomHex(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
