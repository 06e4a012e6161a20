package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := GenerateToken(42)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = ValidateToken(tampered)
	assert.Error(t, err)

	_, err = ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	claims := Claims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

// Tokens signed with "none" must not pass even if the payload looks right.
func TestUnsignedTokenRejected(t *testing.T) {
	claims := Claims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))

	// Same input, different salt, different hash.
	other, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}
