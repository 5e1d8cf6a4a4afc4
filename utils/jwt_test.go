package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(secret, "manager", "staff", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "manager", claims.Username)
	assert.Equal(t, "staff", claims.Role)
}

func TestParseTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := GenerateToken([]byte("a"), "manager", "staff", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken([]byte("b"), token)
	assert.Error(t, err)

	expired, err := GenerateToken([]byte("a"), "manager", "staff", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken([]byte("a"), expired)
	assert.Error(t, err)
}
