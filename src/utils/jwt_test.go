package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("user-1", "admin@example.com", "admin")
	require.NoError(t, err)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTWithoutConfiguredSecret(t *testing.T) {
	// Falls back to the development secret (with a logged warning)
	// instead of failing outright.
	t.Setenv("JWT_SECRET", "")

	token, err := GenerateJWT("user-2", "admin@example.com", "admin")
	require.NoError(t, err)
	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.UserID)
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	_, err := ParseJWT("")
	assert.Error(t, err)
	_, err = ParseJWT("not.a.token")
	assert.Error(t, err)
}
