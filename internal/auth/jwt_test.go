package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signingKey = "test-signing-key"

func signToken(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	v := NewValidator(signingKey)
	token := signToken(t, signingKey, jwt.MapClaims{
		"user_id":    "5f2c2f7e-7a1e-4d0c-9b7a-1d3b9f6e8a01",
		"session_id": "sess-1",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "5f2c2f7e-7a1e-4d0c-9b7a-1d3b9f6e8a01", claims.UserID.String())
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestValidateTokenWrongKey(t *testing.T) {
	v := NewValidator(signingKey)
	token := signToken(t, "some-other-key", jwt.MapClaims{
		"user_id": "5f2c2f7e-7a1e-4d0c-9b7a-1d3b9f6e8a01",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	v := NewValidator(signingKey)
	token := signToken(t, signingKey, jwt.MapClaims{
		"user_id": "5f2c2f7e-7a1e-4d0c-9b7a-1d3b9f6e8a01",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsUnexpectedAlgorithm(t *testing.T) {
	v := NewValidator(signingKey)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "5f2c2f7e-7a1e-4d0c-9b7a-1d3b9f6e8a01",
	})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.ValidateToken(unsigned)
	assert.Error(t, err)
}

func TestValidateTokenBadUserID(t *testing.T) {
	v := NewValidator(signingKey)
	token := signToken(t, signingKey, jwt.MapClaims{
		"user_id": "not-a-uuid",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.ValidateToken(token)
	assert.Error(t, err)
}
