package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateToken returns size random bytes as a base64url string without
// padding. It backs the pepper and the token identifiers.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
