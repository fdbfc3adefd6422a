package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key")

func TestAccessTokenRoundTrip(t *testing.T) {
	tokenStr, err := GenerateAccessToken(42, testSecret, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims, err := VerifyToken(tokenStr, testSecret)
	require.NoError(t, err)

	userID, err := UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	tokenStr, err := GenerateAccessToken(1, testSecret, time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(tokenStr, []byte("other-secret"))
	assert.Error(t, err)
}

func TestVerifyTokenExpired(t *testing.T) {
	tokenStr, err := GenerateAccessToken(1, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(tokenStr, testSecret)
	assert.Error(t, err)
}

func TestVerifyTokenGarbage(t *testing.T) {
	_, err := VerifyToken("not.a.token", testSecret)
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	hash := HashRefreshToken(token)
	assert.True(t, VerifyRefreshToken(token, hash))
	assert.False(t, VerifyRefreshToken("forged", hash))
}

func TestRefreshTokensAreUnique(t *testing.T) {
	a, err := GenerateRefreshToken()
	require.NoError(t, err)
	b, err := GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
