package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func (s *Server) registerCommentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/work_comments",
		Summary:     "List comments",
		Description: "Returns live comments, optionally scoped to one work",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListComments)

	huma.Register(s.api, huma.Operation{
		OperationID: "createComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/work_comments",
		Summary:     "Create comment",
		Description: "Creates a comment authored by the authenticated user on a live work",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "getComment",
		Method:      http.MethodGet,
		Path:        "/api/v1/work_comments/{id}",
		Summary:     "Get comment",
		Description: "Returns a comment by ID",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateComment",
		Method:      http.MethodPut,
		Path:        "/api/v1/work_comments/{id}",
		Summary:     "Update comment",
		Description: "Edits a comment's text. Only the author or an admin.",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/work_comments/{id}",
		Summary:     "Delete comment",
		Description: "Soft-deletes a comment. Only the author or an admin.",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteComment)
}

// === DTOs ===

// CommentResponse contains comment data in API responses.
type CommentResponse struct {
	ID        string     `json:"id" doc:"Comment ID"`
	Text      string     `json:"text" doc:"Comment text"`
	WorkID    string     `json:"work_id" doc:"Commented work ID"`
	UserID    string     `json:"user_id" doc:"Author user ID"`
	CreatedAt time.Time  `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" doc:"Last update timestamp"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" doc:"Deletion timestamp, set when the comment is soft-deleted"`
}

// CommentOutput wraps a single comment response for Huma.
type CommentOutput struct {
	Body CommentResponse
}

// ListCommentsInput contains parameters for listing comments.
type ListCommentsInput struct {
	Authorization string `header:"Authorization"`
	WorkID        string `query:"work_id" doc:"Filter by work"`
	Limit         int    `query:"limit" doc:"Items per page (max 100)"`
	Offset        int    `query:"offset" doc:"Rows to skip"`
	Order         string `query:"order" enum:"asc,desc" doc:"Sort by creation time"`
}

// ListCommentsResponse contains a list of comments.
type ListCommentsResponse struct {
	Comments []CommentResponse `json:"comments" doc:"List of comments"`
}

// ListCommentsOutput wraps the comment list for Huma.
type ListCommentsOutput struct {
	Body ListCommentsResponse
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	Text   string `json:"text" validate:"required,max=4000" doc:"Comment text"`
	WorkID string `json:"work_id" validate:"required" doc:"Work to comment on"`
}

// CreateCommentInput wraps the create request for Huma.
type CreateCommentInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateCommentRequest
}

// GetCommentInput contains the comment ID path parameter.
type GetCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Comment ID"`
}

// UpdateCommentRequest is the request body for editing a comment.
type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required,max=4000" doc:"New comment text"`
}

// UpdateCommentInput wraps the edit request for Huma.
type UpdateCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Comment ID"`
	Body          UpdateCommentRequest
}

// DeleteCommentInput contains the comment ID path parameter.
type DeleteCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Comment ID"`
}

// === Handlers ===

func (s *Server) handleListComments(ctx context.Context, input *ListCommentsInput) (*ListCommentsOutput, error) {
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}

	comments, err := s.services.Comment.List(ctx,
		parsePagination(input.Limit, input.Offset),
		store.CommentFilter{
			WorkID: input.WorkID,
			Order:  store.SortOrder(input.Order),
		})
	if err != nil {
		return nil, err
	}

	resp := ListCommentsResponse{Comments: make([]CommentResponse, 0, len(comments))}
	for _, c := range comments {
		resp.Comments = append(resp.Comments, mapCommentResponse(c))
	}
	return &ListCommentsOutput{Body: resp}, nil
}

func (s *Server) handleCreateComment(ctx context.Context, input *CreateCommentInput) (*CommentOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	comment, err := s.services.Comment.Create(ctx, claims, service.CreateCommentRequest{
		Text:   input.Body.Text,
		WorkID: input.Body.WorkID,
	})
	if err != nil {
		return nil, err
	}

	return &CommentOutput{Body: mapCommentResponse(comment)}, nil
}

func (s *Server) handleGetComment(ctx context.Context, input *GetCommentInput) (*CommentOutput, error) {
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}

	comment, err := s.services.Comment.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &CommentOutput{Body: mapCommentResponse(comment)}, nil
}

func (s *Server) handleUpdateComment(ctx context.Context, input *UpdateCommentInput) (*CommentOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	comment, err := s.services.Comment.Update(ctx, claims, input.ID, service.UpdateCommentRequest{
		Text: input.Body.Text,
	})
	if err != nil {
		return nil, err
	}

	return &CommentOutput{Body: mapCommentResponse(comment)}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *DeleteCommentInput) (*MessageOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Comment.Delete(ctx, claims, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{
		Body: MessageResponse{Message: "Comment deleted"},
	}, nil
}

// mapCommentResponse converts a domain comment to the API shape.
func mapCommentResponse(c *domain.WorkComment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Text:      c.Text,
		WorkID:    c.WorkID,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		DeletedAt: c.DeletedAt,
	}
}
