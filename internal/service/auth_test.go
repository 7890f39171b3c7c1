package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.MapClaims{
		"user_id": "u1",
		"exp":     exp.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	s := NewAuthService(nil, "topsecret", 1)

	signed := signToken(t, "topsecret", jwt.SigningMethodHS256, time.Now().Add(time.Hour))
	claims, err := s.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["user_id"])
}

func TestValidateTokenWrongSecret(t *testing.T) {
	s := NewAuthService(nil, "topsecret", 1)

	signed := signToken(t, "othersecret", jwt.SigningMethodHS256, time.Now().Add(time.Hour))
	_, err := s.ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	s := NewAuthService(nil, "topsecret", 1)

	signed := signToken(t, "topsecret", jwt.SigningMethodHS256, time.Now().Add(-time.Hour))
	_, err := s.ValidateToken(signed)
	assert.Error(t, err)
}
