package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	ConfigureTokens("test-secret", time.Minute, time.Hour)

	id := Identity{UserID: uuid.New(), Email: "test@example.com", Name: "Test User"}
	token, expiresAt, err := GenerateToken(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	got, err := claims.Identity()
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestVerifyTokenRejectsOtherSecret(t *testing.T) {
	ConfigureTokens("secret-a", time.Minute, time.Hour)
	token, _, err := GenerateToken(Identity{UserID: uuid.New()})
	require.NoError(t, err)

	ConfigureTokens("secret-b", time.Minute, time.Hour)
	_, err = VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	ConfigureTokens("test-secret", time.Minute, time.Hour)
	claims := &Claims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	ConfigureTokens("test-secret", time.Minute, time.Hour)
	_, err := VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewRefreshTokenHashes(t *testing.T) {
	raw, hash, err := NewRefreshToken()
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Equal(t, HashRefreshToken(raw), hash)
	assert.NotEqual(t, raw, hash)

	raw2, _, err := NewRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
}
