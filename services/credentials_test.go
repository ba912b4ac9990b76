package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	creds := NewCredentialService("secret", time.Hour)

	hash, err := creds.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, creds.CheckPassword(hash, "hunter22"))
	assert.False(t, creds.CheckPassword(hash, "hunter23"))
}

func TestTokenRoundTripAndExpiry(t *testing.T) {
	creds := NewCredentialService("secret", 0)
	assert.Equal(t, DefaultTokenTTL, creds.ttl)

	issued := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	creds.now = func() time.Time { return issued }

	token, err := creds.IssueToken("user-1", "ana@example.com")
	require.NoError(t, err)

	claims, err := creds.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.True(t, claims.ExpiresAt.Time.Equal(issued.Add(30*24*time.Hour)))

	creds.now = func() time.Time { return issued.Add(31 * 24 * time.Hour) }
	_, err = creds.ParseToken(token)
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, "Token expired", err.Error())
}

func TestParseTokenRejectsForeignTokens(t *testing.T) {
	creds := NewCredentialService("secret", time.Hour)
	other := NewCredentialService("another-secret", time.Hour)

	token, err := other.IssueToken("user-1", "ana@example.com")
	require.NoError(t, err)
	_, err = creds.ParseToken(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = creds.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// alg none is refused
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = creds.ParseToken(raw)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
