package utils

import (
	"crypto/rand"
	"encoding/hex"
)

const rememberTokenBytes = 64

// GenerateRememberToken mints an opaque, high-entropy token that shares no
// structure with session tokens.
func GenerateRememberToken() (string, error) {
	buf := make([]byte, rememberTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
