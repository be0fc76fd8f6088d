package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyAuthToken(t *testing.T) {
	token, err := GenerateAuthToken(42, "owner@example.com", "Cafe Central", "pro", "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyAuthToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, "Cafe Central", claims.CompanyName)
	assert.Equal(t, "pro", claims.Plan)
}

func TestVerifyAuthToken_WrongSecret(t *testing.T) {
	token, err := GenerateAuthToken(1, "a@b.c", "Acme", "free", "secret-a")
	require.NoError(t, err)

	_, err = VerifyAuthToken(token, "secret-b")
	assert.Error(t, err)
}

func TestVerifyAuthToken_Garbage(t *testing.T) {
	_, err := VerifyAuthToken("not.a.token", "secret")
	assert.Error(t, err)
}

func TestGenerateAuthToken_EmptySecret(t *testing.T) {
	_, err := GenerateAuthToken(1, "a@b.c", "Acme", "free", "")
	assert.Error(t, err)
}
