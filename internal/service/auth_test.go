package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
)

func TestAuthService_Login_Success(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	userID := registerUser(t, svc, "alice@example.com")

	resp, err := svc.Auth.Login(ctx, LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, userID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Positive(t, resp.ExpiresIn)

	claims, err := svc.Auth.VerifyAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	registerUser(t, svc, "bob@example.com")

	_, err := svc.Auth.Login(ctx, LoginRequest{
		Email:    "bob@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := setupServices(t)

	_, err := svc.Auth.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	// Same error as a wrong password, so account existence cannot be probed.
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Login_ValidationError(t *testing.T) {
	svc := setupServices(t)

	_, err := svc.Auth.Login(context.Background(), LoginRequest{
		Email:    "not-an-email",
		Password: "",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestAuthService_Refresh_RotatesTokens(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	registerUser(t, svc, "carol@example.com")
	first := login(t, svc, "carol@example.com")

	refreshed, err := svc.Auth.Refresh(ctx, RefreshRequest{
		RefreshToken: first.RefreshToken,
	})
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, refreshed.SessionID)
	assert.NotEqual(t, first.RefreshToken, refreshed.RefreshToken)
	assert.NotEmpty(t, refreshed.AccessToken)

	// The old refresh token is dead after rotation.
	_, err = svc.Auth.Refresh(ctx, RefreshRequest{
		RefreshToken: first.RefreshToken,
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrTokenExpired))

	// The new one still works.
	_, err = svc.Auth.Refresh(ctx, RefreshRequest{
		RefreshToken: refreshed.RefreshToken,
	})
	require.NoError(t, err)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	svc := setupServices(t)

	_, err := svc.Auth.Refresh(context.Background(), RefreshRequest{
		RefreshToken: "bogus-token",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrTokenExpired))
}

func TestAuthService_Logout(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	registerUser(t, svc, "dave@example.com")
	resp := login(t, svc, "dave@example.com")

	require.NoError(t, svc.Auth.Logout(ctx, resp.SessionID))

	// The session's refresh token no longer resolves.
	_, err := svc.Auth.Refresh(ctx, RefreshRequest{
		RefreshToken: resp.RefreshToken,
	})
	require.Error(t, err)

	// A second logout finds nothing.
	err = svc.Auth.Logout(ctx, resp.SessionID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestAuthService_VerifyAccessToken_Garbage(t *testing.T) {
	svc := setupServices(t)

	_, err := svc.Auth.VerifyAccessToken("v4.local.garbage")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}
