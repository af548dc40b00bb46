package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignAndParseJWT(t *testing.T) {
	tok, err := SignJWT("secret", "u-1", "repairman", 5)
	require.NoError(t, err)

	parsed, err := ParseJWT("secret", tok)
	require.NoError(t, err)
	claims := parsed.Claims.(*Claims)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "repairman", claims.Role)

	_, err = ParseJWT("other", tok)
	require.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	tok, err := SignJWT("secret", "u-1", "owner", -1)
	require.NoError(t, err)

	_, err = ParseJWT("secret", tok)
	require.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.True(t, CheckPassword(hash, "hunter22"))
	require.False(t, CheckPassword(hash, "hunter23"))
}
