package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("secret", "1h")

	token, expiresAt, err := svc.GenerateAccessToken("hr-1", "company-1", RoleAdmin)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "hr-1", decoded.Subject())

	companyID, _ := decoded.Get("company_id")
	role, _ := decoded.Get("role")
	tokenType, _ := decoded.Get("type")
	assert.Equal(t, "company-1", companyID)
	assert.Equal(t, "admin", role)
	assert.Equal(t, "access", tokenType)
}

func TestGenerateAccessToken_Errors(t *testing.T) {
	_, _, err := NewJWTService("secret", "1h").GenerateAccessToken("hr-1", "", RoleAdmin)
	assert.Error(t, err)

	_, _, err = NewJWTService("secret", "soon").GenerateAccessToken("hr-1", "company-1", RoleAdmin)
	assert.ErrorContains(t, err, "invalid access token ttl")
}
