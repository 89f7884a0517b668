package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

const oneTimeTokenBytes = 32

// NewOneTimeToken returns a URL-safe single-use token together with its
// digest. The plaintext goes out in the verification email; only the digest
// is ever persisted.
func NewOneTimeToken() (plain string, digest string, err error) {
	buffer := make([]byte, oneTimeTokenBytes)
	if _, err := rand.Read(buffer); err != nil {
		return "", "", err
	}
	plain = base64.RawURLEncoding.EncodeToString(buffer)
	return plain, TokenDigest(plain), nil
}

// TokenDigest maps a plaintext one-time token to the form stored in the
// verification_tokens table.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
