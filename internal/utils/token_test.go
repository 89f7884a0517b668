package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOneTimeToken(t *testing.T) {
	plain, digest, err := NewOneTimeToken()
	require.NoError(t, err)
	assert.NotEmpty(t, plain)
	assert.NotEqual(t, plain, digest)
	assert.Equal(t, TokenDigest(plain), digest)

	again, _, err := NewOneTimeToken()
	require.NoError(t, err)
	assert.NotEqual(t, plain, again)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.Com "))
}
