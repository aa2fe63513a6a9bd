package service

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// setupServices creates the full service layer over a throwaway database.
func setupServices(t *testing.T) *Services {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	return NewServices(st, tokenService, validation.New(), logger)
}

// registerUser creates an account through the service layer.
func registerUser(t *testing.T, svc *Services, email string) string {
	t.Helper()

	user, err := svc.User.Create(context.Background(), CreateUserRequest{
		Email:      email,
		Password:   "secret123",
		GivenName:  "Test",
		FamilyName: "User",
	})
	require.NoError(t, err)
	return user.ID
}

// login opens a session for a registered account.
func login(t *testing.T, svc *Services, email string) *AuthResponse {
	t.Helper()

	resp, err := svc.Auth.Login(context.Background(), LoginRequest{
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	return resp
}

// claimsFor returns access claims for a logged-in account.
func claimsFor(t *testing.T, svc *Services, email string) *auth.AccessClaims {
	t.Helper()

	resp := login(t, svc, email)
	claims, err := svc.Auth.VerifyAccessToken(resp.AccessToken)
	require.NoError(t, err)
	return claims
}
