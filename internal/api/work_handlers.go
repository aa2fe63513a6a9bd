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

func (s *Server) registerWorkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listWorks",
		Method:      http.MethodGet,
		Path:        "/api/v1/works",
		Summary:     "List works",
		Description: "Returns live works, optionally filtered by author or tag",
		Tags:        []string{"Works"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListWorks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createWork",
		Method:      http.MethodPost,
		Path:        "/api/v1/works",
		Summary:     "Create work",
		Description: "Creates a new work owned by the authenticated user",
		Tags:        []string{"Works"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateWork)

	huma.Register(s.api, huma.Operation{
		OperationID: "getWork",
		Method:      http.MethodGet,
		Path:        "/api/v1/works/{id}",
		Summary:     "Get work",
		Description: "Returns a work by ID",
		Tags:        []string{"Works"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetWork)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateWork",
		Method:      http.MethodPut,
		Path:        "/api/v1/works/{id}",
		Summary:     "Update work",
		Description: "Replaces the writable fields, including the tag set. Only the owner or an admin.",
		Tags:        []string{"Works"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateWork)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteWork",
		Method:      http.MethodDelete,
		Path:        "/api/v1/works/{id}",
		Summary:     "Delete work",
		Description: "Soft-deletes a work. Only the owner or an admin.",
		Tags:        []string{"Works"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteWork)

	huma.Register(s.api, huma.Operation{
		OperationID: "getWorkComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/works/{id}/comments",
		Summary:     "Get work comments",
		Description: "Returns live comments on a work",
		Tags:        []string{"Works"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetWorkComments)
}

// === DTOs ===

// WorkResponse contains work data in API responses.
type WorkResponse struct {
	ID        string     `json:"id" doc:"Work ID"`
	Theme     string     `json:"theme" doc:"Theme"`
	Text      string     `json:"text" doc:"Full text"`
	Price     int64      `json:"price" doc:"Asking price in minor currency units"`
	UserID    string     `json:"user_id" doc:"Owning user ID"`
	TagIDs    []string   `json:"tag_ids" doc:"Attached tag IDs"`
	CreatedAt time.Time  `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" doc:"Last update timestamp"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" doc:"Deletion timestamp, set when the work is soft-deleted"`
}

// WorkOutput wraps a single work response for Huma.
type WorkOutput struct {
	Body WorkResponse
}

// ListWorksInput contains parameters for listing works.
type ListWorksInput struct {
	Authorization string `header:"Authorization"`
	Limit         int    `query:"limit" doc:"Items per page (max 100)"`
	Offset        int    `query:"offset" doc:"Rows to skip"`
	UserID        string `query:"user_id" doc:"Filter by owning user"`
	TagID         string `query:"tag_id" doc:"Filter by attached tag"`
	Order         string `query:"order" enum:"asc,desc" doc:"Sort by creation time"`
}

// ListWorksResponse contains a list of works.
type ListWorksResponse struct {
	Works []WorkResponse `json:"works" doc:"List of works"`
}

// ListWorksOutput wraps the work list for Huma.
type ListWorksOutput struct {
	Body ListWorksResponse
}

// WorkRequest is the request body for creating or updating a work.
type WorkRequest struct {
	Theme  string   `json:"theme" validate:"required,max=255" doc:"Theme"`
	Text   string   `json:"text" validate:"required" doc:"Full text"`
	Price  int64    `json:"price" validate:"gte=0" doc:"Asking price, non-negative"`
	TagIDs []string `json:"tag_ids,omitempty" doc:"Full set of tag IDs to attach"`
}

// CreateWorkInput wraps the create request for Huma.
type CreateWorkInput struct {
	Authorization string `header:"Authorization"`
	Body          WorkRequest
}

// GetWorkInput contains the work ID path parameter.
type GetWorkInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Work ID"`
}

// UpdateWorkInput wraps the update request for Huma.
type UpdateWorkInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Work ID"`
	Body          WorkRequest
}

// DeleteWorkInput contains the work ID path parameter.
type DeleteWorkInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Work ID"`
}

// GetWorkCommentsInput contains parameters for listing a work's comments.
type GetWorkCommentsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Work ID"`
	Limit         int    `query:"limit" doc:"Items per page (max 100)"`
	Offset        int    `query:"offset" doc:"Rows to skip"`
	Order         string `query:"order" enum:"asc,desc" doc:"Sort by creation time"`
}

// === Handlers ===

func (s *Server) handleListWorks(ctx context.Context, input *ListWorksInput) (*ListWorksOutput, error) {
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}

	works, err := s.services.Work.List(ctx,
		parsePagination(input.Limit, input.Offset),
		store.WorkFilter{
			UserID: input.UserID,
			TagID:  input.TagID,
			Order:  store.SortOrder(input.Order),
		})
	if err != nil {
		return nil, err
	}

	resp := ListWorksResponse{Works: make([]WorkResponse, 0, len(works))}
	for _, w := range works {
		resp.Works = append(resp.Works, mapWorkResponse(w))
	}
	return &ListWorksOutput{Body: resp}, nil
}

func (s *Server) handleCreateWork(ctx context.Context, input *CreateWorkInput) (*WorkOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	work, err := s.services.Work.Create(ctx, claims, service.CreateWorkRequest{
		Theme:  input.Body.Theme,
		Text:   input.Body.Text,
		Price:  input.Body.Price,
		TagIDs: input.Body.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	return &WorkOutput{Body: mapWorkResponse(work)}, nil
}

func (s *Server) handleGetWork(ctx context.Context, input *GetWorkInput) (*WorkOutput, error) {
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}

	work, err := s.services.Work.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &WorkOutput{Body: mapWorkResponse(work)}, nil
}

func (s *Server) handleUpdateWork(ctx context.Context, input *UpdateWorkInput) (*WorkOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	work, err := s.services.Work.Update(ctx, claims, input.ID, service.UpdateWorkRequest{
		Theme:  input.Body.Theme,
		Text:   input.Body.Text,
		Price:  input.Body.Price,
		TagIDs: input.Body.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	return &WorkOutput{Body: mapWorkResponse(work)}, nil
}

func (s *Server) handleDeleteWork(ctx context.Context, input *DeleteWorkInput) (*MessageOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Work.Delete(ctx, claims, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{
		Body: MessageResponse{Message: "Work deleted"},
	}, nil
}

func (s *Server) handleGetWorkComments(ctx context.Context, input *GetWorkCommentsInput) (*ListCommentsOutput, error) {
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}

	// 404 for unknown works instead of an empty list.
	if _, err := s.services.Work.Get(ctx, input.ID); err != nil {
		return nil, err
	}

	comments, err := s.services.Comment.List(ctx,
		parsePagination(input.Limit, input.Offset),
		store.CommentFilter{
			WorkID: input.ID,
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

// mapWorkResponse converts a domain work to the API shape.
func mapWorkResponse(w *domain.Work) WorkResponse {
	tagIDs := w.TagIDs
	if tagIDs == nil {
		tagIDs = []string{}
	}
	return WorkResponse{
		ID:        w.ID,
		Theme:     w.Theme,
		Text:      w.Text,
		Price:     w.Price,
		UserID:    w.UserID,
		TagIDs:    tagIDs,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
		DeletedAt: w.DeletedAt,
	}
}
