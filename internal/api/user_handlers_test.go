package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_FirstIsAdmin(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":    "root@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var first UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &first))
	assert.Equal(t, "admin", first.Role)

	resp = ts.api.Post("/api/v1/users", map[string]any{
		"email":    "second@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var second UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &second))
	assert.Equal(t, "member", second.Role)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)

	ts.registerAndLogin(t, "alice@example.com")

	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":    "Alice@Example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Equal(t, "ALREADY_EXISTS", apiErr.Code)
}

func TestCreateUser_ShortPassword(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":    "weak@example.com",
		"password": "12345",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestIsUniqueEmail(t *testing.T) {
	ts := setupTestServer(t)

	ts.registerAndLogin(t, "taken@example.com")

	resp := ts.api.Post("/api/v1/users/is_unique_email", map[string]any{
		"email": "taken@example.com",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var check IsUniqueEmailResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &check))
	assert.False(t, check.Unique)

	resp = ts.api.Post("/api/v1/users/is_unique_email", map[string]any{
		"email": "free@example.com",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &check))
	assert.True(t, check.Unique)
}

func TestAboutMe(t *testing.T) {
	ts := setupTestServer(t)

	token, userID := ts.registerAndLogin(t, "me@example.com")

	resp := ts.api.Get("/api/v1/users/about_me", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var user UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "me@example.com", user.Email)
}

func TestGetUser_SelfOrAdminOnly(t *testing.T) {
	ts := setupTestServer(t)

	adminToken, _ := ts.registerAndLogin(t, "admin@example.com")
	_, targetID := ts.registerAndLogin(t, "target@example.com")
	otherToken, _ := ts.registerAndLogin(t, "other@example.com")

	resp := ts.api.Get("/api/v1/users/"+targetID, bearer(otherToken))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Get("/api/v1/users/"+targetID, bearer(adminToken))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestUpdateUser_SelfOrAdminOnly(t *testing.T) {
	ts := setupTestServer(t)

	adminToken, _ := ts.registerAndLogin(t, "admin@example.com")
	ownerToken, ownerID := ts.registerAndLogin(t, "owner@example.com")
	otherToken, _ := ts.registerAndLogin(t, "other@example.com")

	body := map[string]any{"email": "owner@example.com", "given_name": "Renamed"}

	resp := ts.api.Put("/api/v1/users/"+ownerID, bearer(otherToken), body)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Put("/api/v1/users/"+ownerID, bearer(ownerToken), body)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var user UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.Equal(t, "Renamed", user.GivenName)

	resp = ts.api.Put("/api/v1/users/"+ownerID, bearer(adminToken),
		map[string]any{"email": "owner@example.com", "given_name": "Admin edit"})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestUpdateUser_RoleAssignment(t *testing.T) {
	ts := setupTestServer(t)

	adminToken, _ := ts.registerAndLogin(t, "admin@example.com")
	memberToken, memberID := ts.registerAndLogin(t, "member@example.com")

	// Members cannot grant roles, not even on their own account.
	resp := ts.api.Put("/api/v1/users/"+memberID, bearer(memberToken),
		map[string]any{"email": "member@example.com", "role": "admin"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Get("/api/v1/users/"+memberID, bearer(memberToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var user UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.Equal(t, "member", user.Role)

	// An admin can promote.
	resp = ts.api.Put("/api/v1/users/"+memberID, bearer(adminToken),
		map[string]any{"email": "member@example.com", "role": "admin"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.Equal(t, "admin", user.Role)

	// Omitting the role keeps the current one.
	resp = ts.api.Put("/api/v1/users/"+memberID, bearer(adminToken),
		map[string]any{"email": "member@example.com", "given_name": "Promoted"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.Equal(t, "admin", user.Role)

	// A fresh login carries the new role into the token.
	resp = ts.api.Post("/api/v1/users/auth", map[string]any{
		"email":    "member@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var authResp AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &authResp))

	resp = ts.api.Get("/api/v1/users", bearer(authResp.AccessToken))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestChangePassword(t *testing.T) {
	ts := setupTestServer(t)

	token, userID := ts.registerAndLogin(t, "rotate@example.com")

	resp := ts.api.Put("/api/v1/users/"+userID+"/password", bearer(token),
		map[string]any{"password": "new-secret"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// The old password is refused, the new one works.
	resp = ts.api.Post("/api/v1/users/auth", map[string]any{
		"email":    "rotate@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/users/auth", map[string]any{
		"email":    "rotate@example.com",
		"password": "new-secret",
	})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestDeleteUser_SoftDeleteFreesEmail(t *testing.T) {
	ts := setupTestServer(t)

	adminToken, _ := ts.registerAndLogin(t, "admin@example.com")
	token, userID := ts.registerAndLogin(t, "gone@example.com")

	resp := ts.api.Delete("/api/v1/users/"+userID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// The account stays reachable by ID, marked deleted.
	resp = ts.api.Get("/api/v1/users/"+userID, bearer(adminToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var user UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.NotNil(t, user.DeletedAt)

	// The email is free for a fresh registration.
	resp = ts.api.Post("/api/v1/users", map[string]any{
		"email":    "gone@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestListUsers_AdminOnly(t *testing.T) {
	ts := setupTestServer(t)

	adminToken, _ := ts.registerAndLogin(t, "admin@example.com")
	memberToken, _ := ts.registerAndLogin(t, "member@example.com")

	resp := ts.api.Get("/api/v1/users", bearer(memberToken))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Get("/api/v1/users", bearer(adminToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListUsersResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Len(t, list.Users, 2)
}
