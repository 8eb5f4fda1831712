package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	m, err := NewJWTManager("", time.Hour)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestNewJWTManagerDefaultTTL(t *testing.T) {
	m, err := NewJWTManager("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, m.TTL)
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m, err := NewJWTManager("secret", 15*time.Minute)
	require.NoError(t, err)

	token, exp, err := m.GenerateAccessToken("user-1", "a@b.test")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "a@b.test", claims.Email)
}

func TestParseAccessTokenRejects(t *testing.T) {
	m, _ := NewJWTManager("secret", time.Hour)
	other, _ := NewJWTManager("other-secret", time.Hour)

	wrongSecret, _, err := other.GenerateAccessToken("user-1", "a@b.test")
	require.NoError(t, err)

	expired := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString(m.Secret)
	require.NoError(t, err)

	noExp := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}
	noExpToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, noExp).SignedString(m.Secret)
	require.NoError(t, err)

	noSub := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	noSubToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, noSub).SignedString(m.Secret)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	valid := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	hs384Token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, valid).SignedString(m.Secret)
	require.NoError(t, err)
	hs512Token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, valid).SignedString(m.Secret)
	require.NoError(t, err)

	cases := map[string]string{
		"malformed":    "not-a-token",
		"wrong secret": wrongSecret,
		"expired":      expiredToken,
		"no expiry":    noExpToken,
		"no subject":   noSubToken,
		"alg none":     noneToken,
		"alg HS384":    hs384Token,
		"alg HS512":    hs512Token,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := m.ParseAccessToken(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
