package api

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a fully wired server over a throwaway database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	log := logger.New(logger.Config{
		Writer: io.Discard,
		Format: "json",
		Level:  slog.LevelError,
	})

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), log.Logger)
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

	services := service.NewServices(st, tokenService, validation.New(), log.Logger)
	server := NewServer(st, services, log)

	// Tests hammer the credential endpoints; give them room.
	server.authLimiter = ratelimit.New(1000, 1000)

	return &testServer{
		Server: server,
		api:    humatest.Wrap(t, server.api),
	}
}

// registerAndLogin creates an account over the API and returns its token and
// user ID.
func (ts *testServer) registerAndLogin(t *testing.T, email string) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.Code, "registration failed: %s", resp.Body.String())

	var user UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))

	resp = ts.api.Post("/api/v1/users/auth", map[string]any{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.Code, "login failed: %s", resp.Body.String())

	var authResp AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &authResp))

	return authResp.AccessToken, user.ID
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
}

func TestRegistrationRateLimited(t *testing.T) {
	ts := setupTestServer(t)

	// No refill; two tokens total for this client.
	ts.Server.authLimiter = ratelimit.New(0, 2)

	for i, email := range []string{"one@example.com", "two@example.com"} {
		resp := ts.api.Post("/api/v1/users", map[string]any{
			"email":    email,
			"password": "secret123",
		})
		require.Equal(t, http.StatusOK, resp.Code, "registration %d: %s", i, resp.Body.String())
	}

	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":    "three@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)

	// Unthrottled paths keep working.
	resp = ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{
		"/api/v1/users/about_me",
		"/api/v1/works",
		"/api/v1/tags",
		"/api/v1/work_comments",
	} {
		resp := ts.api.Get(path)
		assert.Equal(t, http.StatusUnauthorized, resp.Code, "path %s", path)
	}

	resp := ts.api.Get("/api/v1/works", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
