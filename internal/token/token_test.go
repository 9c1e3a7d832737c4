package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsURLSafeAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		tok, err := Generate()
		require.NoError(t, err)
		// 32 bytes of entropy -> 43 chars of unpadded base64url.
		assert.Len(t, tok, 43)
		assert.NotContains(t, tok, "+")
		assert.NotContains(t, tok, "/")
		assert.NotContains(t, tok, "=")
		assert.False(t, seen[tok], "generated a duplicate token")
		seen[tok] = true
	}
}

func TestDigestRoundTrip(t *testing.T) {
	tok, err := Generate()
	require.NoError(t, err)
	salt, err := NewSalt()
	require.NoError(t, err)

	digest, err := Digest(tok, salt)
	require.NoError(t, err)
	assert.NotEqual(t, tok, digest)

	assert.True(t, Matches(tok, salt, digest))
	assert.False(t, Matches(tok+"x", salt, digest))
	assert.False(t, Matches(tok, salt, digest[:len(digest)-2]+"ff"))
}

func TestDigestDependsOnSalt(t *testing.T) {
	saltA, err := NewSalt()
	require.NoError(t, err)
	saltB, err := NewSalt()
	require.NoError(t, err)

	digestA, err := Digest("same-token", saltA)
	require.NoError(t, err)
	digestB, err := Digest("same-token", saltB)
	require.NoError(t, err)

	assert.NotEqual(t, digestA, digestB)
}

func TestDigestRejectsMalformedSalt(t *testing.T) {
	_, err := Digest("tok", "not-hex")
	assert.Error(t, err)
	assert.False(t, Matches("tok", "not-hex", "whatever"))
}
