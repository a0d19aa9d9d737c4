package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("test-secret", 15*time.Minute, 72*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	userID := uuid.NewString()

	token, err := m.GenerateAccessToken(userID, "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "access", claims.Type)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	userID := uuid.NewString()

	token, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "refresh", claims.Type)
}

func TestTokenTypeIsEnforced(t *testing.T) {
	m := newTestManager()

	access, err := m.GenerateAccessToken(uuid.NewString(), "ada@example.com")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken(uuid.NewString())
	require.NoError(t, err)

	// A refresh token must not open access-protected routes and vice versa
	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)
	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager("another-secret", 15*time.Minute, 72*time.Hour)

	token, err := m.GenerateAccessToken(uuid.NewString(), "ada@example.com")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, -time.Minute)

	token, err := m.GenerateAccessToken(uuid.NewString(), "ada@example.com")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := newTestManager()

	_, err := m.ValidateToken("not.a.token")
	assert.Error(t, err)
}
