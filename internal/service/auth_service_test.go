package service

import (
	"context"
	"testing"
	"time"

	"lingolab/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:      "test-secret-key",
			AccessTokenTTL: time.Hour,
		},
	}
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService(&config.Config{})
	require.Error(t, err)
}

func TestAuthService_CreateAndValidate(t *testing.T) {
	svc, err := NewAuthService(newAuthTestConfig())
	require.NoError(t, err)
	ctx := context.Background()

	token, err := svc.CreateJWT(ctx, "user-1", time.Hour, tokenTypeAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateJWT(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, tokenTypeAccess, claims.TokenType)
}

func TestAuthService_RejectsExpiredToken(t *testing.T) {
	svc, err := NewAuthService(newAuthTestConfig())
	require.NoError(t, err)
	ctx := context.Background()

	token, err := svc.CreateJWT(ctx, "user-1", -time.Minute, tokenTypeAccess)
	require.NoError(t, err)

	_, err = svc.ValidateJWT(ctx, token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestAuthService_RejectsForeignSignature(t *testing.T) {
	issuer, err := NewAuthService(&config.Config{JWT: config.JWTConfig{SecretKey: "other-secret"}})
	require.NoError(t, err)
	verifier, err := NewAuthService(newAuthTestConfig())
	require.NoError(t, err)
	ctx := context.Background()

	token, err := issuer.CreateJWT(ctx, "user-1", time.Hour, tokenTypeAccess)
	require.NoError(t, err)

	_, err = verifier.ValidateJWT(ctx, token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}
