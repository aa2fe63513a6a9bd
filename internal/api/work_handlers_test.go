package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createWork creates a work over the API and returns its response.
func (ts *testServer) createWork(t *testing.T, token string, body map[string]any) WorkResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/works", bearer(token), body)
	require.Equal(t, http.StatusOK, resp.Code, "create work failed: %s", resp.Body.String())

	var work WorkResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &work))
	return work
}

// createTag creates a tag over the API and returns its response.
func (ts *testServer) createTag(t *testing.T, token, name string) TagResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/tags", bearer(token), map[string]any{"name": name})
	require.Equal(t, http.StatusOK, resp.Code, "create tag failed: %s", resp.Body.String())

	var tag TagResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tag))
	return tag
}

func TestCreateWork_OwnedByCaller(t *testing.T) {
	ts := setupTestServer(t)

	token, userID := ts.registerAndLogin(t, "author@example.com")

	work := ts.createWork(t, token, map[string]any{
		"theme": "Autumn",
		"text":  "Leaves fall slowly.",
		"price": 500,
	})
	assert.Equal(t, userID, work.UserID)
	assert.Equal(t, "Autumn", work.Theme)
	assert.Equal(t, int64(500), work.Price)
	assert.Empty(t, work.TagIDs)
}

func TestCreateWork_NegativePrice(t *testing.T) {
	ts := setupTestServer(t)

	token, _ := ts.registerAndLogin(t, "author@example.com")

	resp := ts.api.Post("/api/v1/works", bearer(token), map[string]any{
		"theme": "Theme",
		"text":  "Text",
		"price": -1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestWorkTagRoundTrip(t *testing.T) {
	ts := setupTestServer(t)

	token, _ := ts.registerAndLogin(t, "author@example.com")

	tag := ts.createTag(t, token, "poetry")
	work := ts.createWork(t, token, map[string]any{
		"theme":   "Tagged",
		"text":    "Text",
		"price":   0,
		"tag_ids": []string{tag.ID},
	})
	assert.Equal(t, []string{tag.ID}, work.TagIDs)

	// The tag's detail view lists the work.
	resp := ts.api.Get("/api/v1/tags/"+tag.ID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var detail TagResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &detail))
	assert.Equal(t, []string{work.ID}, detail.WorkIDs)

	// So does the tag's works listing.
	resp = ts.api.Get("/api/v1/tags/"+tag.ID+"/works", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var works ListWorksResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &works))
	require.Len(t, works.Works, 1)
	assert.Equal(t, work.ID, works.Works[0].ID)
}

func TestUpdateWork_OwnerOrAdminOnly(t *testing.T) {
	ts := setupTestServer(t)

	adminToken, _ := ts.registerAndLogin(t, "admin@example.com")
	ownerToken, _ := ts.registerAndLogin(t, "owner@example.com")
	otherToken, _ := ts.registerAndLogin(t, "other@example.com")

	work := ts.createWork(t, ownerToken, map[string]any{
		"theme": "Original", "text": "Text", "price": 0,
	})

	body := map[string]any{"theme": "Changed", "text": "Text", "price": 0}

	resp := ts.api.Put("/api/v1/works/"+work.ID, bearer(otherToken), body)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Put("/api/v1/works/"+work.ID, bearer(ownerToken), body)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Put("/api/v1/works/"+work.ID, bearer(adminToken),
		map[string]any{"theme": "Admin edit", "text": "Text", "price": 0})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestDeleteWork_SoftDelete(t *testing.T) {
	ts := setupTestServer(t)

	token, _ := ts.registerAndLogin(t, "author@example.com")

	work := ts.createWork(t, token, map[string]any{
		"theme": "Transient", "text": "Text", "price": 0,
	})

	resp := ts.api.Delete("/api/v1/works/"+work.ID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	// Gone from listings.
	resp = ts.api.Get("/api/v1/works", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListWorksResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Empty(t, list.Works)

	// Still reachable by ID, marked deleted.
	resp = ts.api.Get("/api/v1/works/"+work.ID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var got WorkResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.NotNil(t, got.DeletedAt)
}

func TestGetWork_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	token, _ := ts.registerAndLogin(t, "author@example.com")

	resp := ts.api.Get("/api/v1/works/work-missing", bearer(token))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListWorks_FilterByUser(t *testing.T) {
	ts := setupTestServer(t)

	aliceToken, aliceID := ts.registerAndLogin(t, "alice@example.com")
	bobToken, _ := ts.registerAndLogin(t, "bob@example.com")

	ts.createWork(t, aliceToken, map[string]any{"theme": "A", "text": "T", "price": 0})
	ts.createWork(t, bobToken, map[string]any{"theme": "B", "text": "T", "price": 0})

	resp := ts.api.Get("/api/v1/works?user_id="+aliceID, bearer(bobToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListWorksResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Works, 1)
	assert.Equal(t, "A", list.Works[0].Theme)
}

func TestWorkComments_Listing(t *testing.T) {
	ts := setupTestServer(t)

	authorToken, _ := ts.registerAndLogin(t, "author@example.com")
	readerToken, readerID := ts.registerAndLogin(t, "reader@example.com")

	work := ts.createWork(t, authorToken, map[string]any{
		"theme": "Theme", "text": "Text", "price": 0,
	})

	resp := ts.api.Post("/api/v1/work_comments", bearer(readerToken), map[string]any{
		"text":    "Lovely piece.",
		"work_id": work.ID,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var comment CommentResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &comment))
	assert.Equal(t, readerID, comment.UserID)

	resp = ts.api.Get("/api/v1/works/"+work.ID+"/comments", bearer(authorToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListCommentsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Comments, 1)
	assert.Equal(t, comment.ID, list.Comments[0].ID)

	// Comments on an unknown work 404 rather than returning empty.
	resp = ts.api.Get("/api/v1/works/work-missing/comments", bearer(authorToken))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
