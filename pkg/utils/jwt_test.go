package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, expiry, err := svc.GenerateAccessToken("sub-1", "Agent", "agent@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiry, time.Now().Unix())

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", claims.Sub)
	assert.Equal(t, "Agent", claims.Name)
	assert.Equal(t, "agent@example.com", claims.Email)
	assert.Equal(t, "access", claims.Type)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := NewJWTService("secret-a").GenerateAccessToken("sub-1", "", "")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewJWTService("test-secret")

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
