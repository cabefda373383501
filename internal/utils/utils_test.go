package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "c0ffee00-0000-4000-8000-000000000001", "client", 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "c0ffee00-0000-4000-8000-000000000001", claims.Subject)
	assert.Equal(t, "client", claims.Role)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "u1", "client", 15)
	require.NoError(t, err)

	_, err = ParseAccessToken("other", tok.Token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "u1", "client", -1)
	require.NoError(t, err)

	_, err = ParseAccessToken("s3cret", tok.Token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejectsMissingSubject(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: "client"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = ParseAccessToken("s3cret", raw)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenHash(t *testing.T) {
	rt, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.Len(t, rt.Raw, 96)
	assert.Len(t, HashRefreshRaw(rt.Raw), 64)
	assert.Equal(t, HashRefreshRaw(rt.Raw), HashRefreshRaw(rt.Raw))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse", 4)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "correct horse"))
	assert.False(t, VerifyPassword(hash, "battery staple"))
}

func TestAccessCodes(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := NewAccessCode()
		require.NoError(t, err)
		assert.True(t, ValidAccessCode(code), code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 40)

	assert.Equal(t, "ABC234", NormalizeAccessCode(" abc-234 "))
	assert.False(t, ValidAccessCode("ABC10O"))
	assert.False(t, ValidAccessCode("ABC"))
}

func TestCheckPassword(t *testing.T) {
	assert.ErrorIs(t, CheckPassword("short"), ErrWeakPassword)
	assert.NoError(t, CheckPassword("long enough"))
}
