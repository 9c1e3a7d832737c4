// Package token generates and verifies the single-use submission
// tokens that secure mileage-entry links. A token is the capability:
// whoever holds it may submit one odometer reading. Only a salted
// digest is persisted, so read access to the request table does not
// reveal usable tokens.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const (
	tokenBytes = 32
	saltBytes  = 16
)

// Generate returns a fresh URL-safe token with 256 bits of entropy.
func Generate() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewSalt returns a random hex-encoded salt for digesting a token.
func NewSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Digest computes the hex-encoded SHA-256 of salt || token. Tokens are
// high-entropy random values, so a fast hash is sufficient; a slow KDF
// is only needed for low-entropy secrets like passwords.
func Digest(plaintext, saltHex string) (string, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return "", fmt.Errorf("invalid salt: %w", err)
	}
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(plaintext))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Matches compares a candidate token against a stored digest in
// constant time.
func Matches(plaintext, saltHex, wantDigest string) bool {
	got, err := Digest(plaintext, saltHex)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(wantDigest)) == 1
}
