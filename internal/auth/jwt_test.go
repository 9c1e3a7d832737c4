package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSignAndParseSession(t *testing.T) {
	tok, err := SignSession("dispatcher", "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseSession(tok, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "dispatcher", claims.Username)
	assert.Equal(t, "dispatcher", claims.Subject)
}

func TestParseSessionRejectsWrongSecret(t *testing.T) {
	tok, err := SignSession("dispatcher", "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseSession(tok, "other-secret")
	assert.Error(t, err)
}

func TestParseSessionRejectsExpired(t *testing.T) {
	tok, err := SignSession("dispatcher", "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSession(tok, "test-secret")
	assert.Error(t, err)
}

func TestCheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Dispo123!"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPassword("Dispo123!", string(hash)))
	assert.False(t, CheckPassword("wrong", string(hash)))
	assert.False(t, CheckPassword("Dispo123!", "not-a-hash"))
}
