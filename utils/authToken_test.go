package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	maker, err := NewTokenMaker(testKey)
	require.NoError(t, err)

	token, err := maker.Generate("user-1", "admin")
	require.NoError(t, err)

	claims, err := maker.Validate(token, "doctor", "admin")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	_, err = maker.Validate(token, "doctor")
	assert.ErrorIs(t, err, ErrInsufficientPermissions)
}

func TestTokenExpired(t *testing.T) {
	maker, err := NewTokenMaker(testKey)
	require.NoError(t, err)
	maker.expiry = -time.Minute

	token, err := maker.Generate("user-1", "user")
	require.NoError(t, err)
	_, err = maker.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenRejectsForeignKey(t *testing.T) {
	_, err := NewTokenMaker("short")
	assert.ErrorIs(t, err, ErrInvalidKeyLength)

	a, _ := NewTokenMaker(testKey)
	b, _ := NewTokenMaker("fedcba9876543210fedcba9876543210")
	token, err := a.Generate("user-1", "user")
	require.NoError(t, err)
	_, err = b.Validate(token)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hashed, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hashed)
	assert.True(t, CheckPassword(hashed, "correct horse"))
	assert.False(t, CheckPassword(hashed, "battery staple"))
}
