package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens(secret string, ttl time.Duration) *TokenService {
	return NewTokenService(TokenConfig{Secret: []byte(secret), TTL: ttl, Issuer: "devconnect"})
}

func TestTokenIssueAndVerify(t *testing.T) {
	tokens := newTestTokens("super-secret", time.Hour)

	tok, err := tokens.Issue("user-123")
	require.NoError(t, err)

	sub, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)
}

func TestTokenDistinctPerIssue(t *testing.T) {
	tokens := newTestTokens("super-secret", time.Hour)
	base := time.Now()
	tokens.now = func() time.Time { return base }
	first, err := tokens.Issue("u1")
	require.NoError(t, err)

	tokens.now = func() time.Time { return base.Add(2 * time.Second) }
	second, err := tokens.Issue("u1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	for _, tok := range []string{first, second} {
		sub, err := tokens.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, "u1", sub)
	}
}

func TestTokenExpired(t *testing.T) {
	tokens := newTestTokens("secret", time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	tok, err := tokens.Issue("u1")
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Verify(tok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTokenExpired))
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestTokenWrongSecret(t *testing.T) {
	tok, err := newTestTokens("right-secret", time.Hour).Issue("u2")
	require.NoError(t, err)

	_, err = newTestTokens("wrong-secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenTampered(t *testing.T) {
	tokens := newTestTokens("secret", time.Hour)
	tok, err := tokens.Issue("u3")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("other"))
	require.NoError(t, err)
	forgedParts := strings.Split(forged, ".")

	_, err = tokens.Verify(parts[0] + "." + forgedParts[1] + "." + parts[2])
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenRejectsNoneAlgorithm(t *testing.T) {
	tokens := newTestTokens("secret", time.Hour)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "devconnect",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tokens.Verify(unsigned)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenMalformed(t *testing.T) {
	_, err := newTestTokens("k", time.Hour).Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenEmptySecretRefusesToSign(t *testing.T) {
	_, err := newTestTokens("", time.Hour).Issue("u1")
	assert.ErrorIs(t, err, ErrSigningKey)
}
