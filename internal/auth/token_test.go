package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123"

func TestSignAndParse(t *testing.T) {
	tok, err := SignToken(testSecret, "studyfunnel", "operator-1", "ops@x.com", time.Hour)
	require.NoError(t, err)

	caller, err := ParseToken(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, &Caller{Subject: "operator-1", Email: "ops@x.com"}, caller)
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := SignToken(testSecret, "studyfunnel", "operator-1", "", -time.Minute)
	require.NoError(t, err)

	otherKey, err := SignToken("another-secret-value", "studyfunnel", "operator-1", "", time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "operator-1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":    expired,
		"wrong key":  otherKey,
		"no subject": noSubject,
		"alg none":   unsigned,
		"garbage":    "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(testSecret, tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestSignToken_EmptySecret(t *testing.T) {
	_, err := SignToken("", "studyfunnel", "operator-1", "", time.Hour)
	assert.Error(t, err)
}
