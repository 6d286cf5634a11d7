package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	encoded, err := hashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	assert.True(t, verifyPassword(encoded, "correct horse battery staple"))
	assert.False(t, verifyPassword(encoded, "wrong password"))
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := hashPassword("same password")
	require.NoError(t, err)
	second, err := hashPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	assert.False(t, verifyPassword("not-an-encoded-hash", "anything"))
	assert.False(t, verifyPassword("", "anything"))
}
