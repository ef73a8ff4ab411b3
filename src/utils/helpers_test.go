package utils

import (
	"testing"
	"time"

	"unimap/src/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseJWT(t *testing.T) {
	NewJWTKey([]byte("test-secret"))

	token, err := GenerateJWT(7)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.NotNil(t, claims.IssuedAt)
	assert.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, claims.IssuedAt.Add(config.TokenTTL), claims.ExpiresAt.Time, time.Second)
}

func TestParseJWTWrongKey(t *testing.T) {
	NewJWTKey([]byte("test-secret"))
	token, err := GenerateJWT(7)
	assert.NoError(t, err)

	NewJWTKey([]byte("other-secret"))
	_, err = ParseJWT(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseJWTMalformed(t *testing.T) {
	NewJWTKey([]byte("test-secret"))
	_, err := ParseJWT("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	assert.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3hunter3"))
}
