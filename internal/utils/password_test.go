package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_SaltIsRandomized(t *testing.T) {
	h1, err := HashPassword("pw123456", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("pw123456", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.NotContains(t, h1, "pw123456")
}

func TestVerifyPassword(t *testing.T) {
	h, err := HashPassword("pw123456", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(h, "pw123456"))
	assert.False(t, VerifyPassword(h, "wrong-password"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "pw123456"))
}
