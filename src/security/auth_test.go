package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

func TestGenerateAndValidateToken(t *testing.T) {
	s := NewAuthService(testSecret)

	token, err := s.GenerateToken(42, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", subject)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewAuthService(testSecret).GenerateToken(42, time.Hour)
	require.NoError(t, err)

	_, err = NewAuthService("a-completely-different-32-char-secret!!").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	s := NewAuthService(testSecret)

	token, err := s.GenerateToken(42, -time.Minute)
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	s := NewAuthService(testSecret)

	_, err := s.ValidateToken("not.a.jwt")
	assert.Error(t, err)
}

func TestGenerateRefreshTokenUnique(t *testing.T) {
	s := NewAuthService(testSecret)

	a, err := s.GenerateRefreshToken()
	require.NoError(t, err)
	b, err := s.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestHashPassword(t *testing.T) {
	s := NewAuthService(testSecret)

	hashed, err := s.HashPassword("hunter22")
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("hunter22")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("wrong")))
}
