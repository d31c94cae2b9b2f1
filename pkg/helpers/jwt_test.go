package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
)

func testIdentity() Identity {
	return Identity{
		UserID:    "u1",
		SessionID: "sid-1",
		Subdomain: "jane",
		Role:      entity.RoleUser,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	token, exp, err := m.GenerateAccessToken(testIdentity())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "jane", claims.Subdomain)
	assert.Equal(t, entity.RoleUser, claims.Role)
	assert.False(t, claims.Impersonated())
}

func TestTokenSecretsAreSeparate(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	access, _, err := m.GenerateAccessToken(testIdentity())
	require.NoError(t, err)
	refresh, _, err := m.GenerateRefreshToken(testIdentity())
	require.NoError(t, err)

	_, err = m.ParseRefreshToken(access)
	assert.Error(t, err)
	_, err = m.ParseAccessToken(refresh)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", -time.Minute, time.Hour)

	token, _, err := m.GenerateAccessToken(testIdentity())
	require.NoError(t, err)

	_, err = m.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestImpersonationClaims(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	id := testIdentity()
	id.ImpersonatorID = "admin-1"
	token, _, err := m.GenerateAccessTokenTTL(id, 30*time.Minute)
	require.NoError(t, err)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.True(t, claims.Impersonated())
	assert.Equal(t, "admin-1", claims.ImpersonatorID)
}

func TestGarbageTokenRejected(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	_, err := m.ParseAccessToken("not.a.token")
	assert.Error(t, err)
}
