// Package auth issues and validates the short-lived session tokens of
// fleet operators. Sessions are stateless HS256 JWTs; the single
// operator account is configured, not stored.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "fleet-tracker-backend"

// OperatorClaims are the JWT claims of an operator session.
type OperatorClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// CheckPassword verifies a plaintext password against a bcrypt hash.
func CheckPassword(plaintext, bcryptHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(bcryptHash), []byte(plaintext)) == nil
}

// SignSession returns a signed session token for the given operator.
func SignSession(username, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &OperatorClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSession validates a session token and returns its claims.
func ParseSession(tokenString, secret string) (*OperatorClaims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*OperatorClaims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
