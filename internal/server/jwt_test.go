package server

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobtrackr/internal/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing",
		ExpirationHours: 24,
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID, claims.GetUserID())
}

func TestJWTService_EmptyToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateToken("")
	assert.Error(t, err)
}

func TestJWTService_MalformedToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := newTestJWTService()
	token, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)

	other := NewJWTService(&config.JWTConfig{
		Secret:          "a-different-secret-entirely",
		ExpirationHours: 24,
	})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	require.NoError(t, err)

	getter, err := svc.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, getter.GetUserID())
}
