package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateComment_AuthorOrAdminOnly(t *testing.T) {
	ts := setupTestServer(t)

	adminToken, _ := ts.registerAndLogin(t, "admin@example.com")
	authorToken, _ := ts.registerAndLogin(t, "author@example.com")
	readerToken, _ := ts.registerAndLogin(t, "reader@example.com")

	work := ts.createWork(t, authorToken, map[string]any{
		"theme": "Theme", "text": "Text", "price": 0,
	})

	resp := ts.api.Post("/api/v1/work_comments", bearer(readerToken), map[string]any{
		"text":    "First take",
		"work_id": work.ID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var comment CommentResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &comment))

	// The work's owner is not the comment's author.
	resp = ts.api.Put("/api/v1/work_comments/"+comment.ID, bearer(authorToken),
		map[string]any{"text": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Put("/api/v1/work_comments/"+comment.ID, bearer(readerToken),
		map[string]any{"text": "Second take"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Put("/api/v1/work_comments/"+comment.ID, bearer(adminToken),
		map[string]any{"text": "Moderated"})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestCreateComment_DeletedWorkConflict(t *testing.T) {
	ts := setupTestServer(t)

	token, _ := ts.registerAndLogin(t, "author@example.com")

	work := ts.createWork(t, token, map[string]any{
		"theme": "Theme", "text": "Text", "price": 0,
	})

	resp := ts.api.Delete("/api/v1/works/"+work.ID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/work_comments", bearer(token), map[string]any{
		"text":    "Too late",
		"work_id": work.ID,
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestDeleteComment_SoftDelete(t *testing.T) {
	ts := setupTestServer(t)

	token, _ := ts.registerAndLogin(t, "author@example.com")

	work := ts.createWork(t, token, map[string]any{
		"theme": "Theme", "text": "Text", "price": 0,
	})

	resp := ts.api.Post("/api/v1/work_comments", bearer(token), map[string]any{
		"text":    "Disposable",
		"work_id": work.ID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var comment CommentResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &comment))

	resp = ts.api.Delete("/api/v1/work_comments/"+comment.ID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	// Gone from listings, reachable by ID.
	resp = ts.api.Get("/api/v1/work_comments?work_id="+work.ID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListCommentsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Empty(t, list.Comments)

	resp = ts.api.Get("/api/v1/work_comments/"+comment.ID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var got CommentResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.NotNil(t, got.DeletedAt)
}
