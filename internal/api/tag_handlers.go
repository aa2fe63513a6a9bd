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

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns all live tags ordered by name",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags",
		Summary:     "Create tag",
		Description: "Creates a new tag attached to the authenticated user",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Get tag",
		Description: "Returns a tag by ID with the IDs of live works carrying it",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPut,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Update tag",
		Description: "Renames a tag. Only the creator or an admin.",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Soft-deletes a tag. Only the creator or an admin.",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTagWorks",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}/works",
		Summary:     "Get tag works",
		Description: "Returns live works carrying this tag",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetTagWorks)
}

// === DTOs ===

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID        string     `json:"id" doc:"Tag ID"`
	Name      string     `json:"name" doc:"Tag name, unique among live tags"`
	WorkIDs   []string   `json:"work_ids,omitempty" doc:"IDs of live works carrying the tag (detail view only)"`
	CreatedAt time.Time  `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" doc:"Last update timestamp"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" doc:"Deletion timestamp, set when the tag is soft-deleted"`
}

// TagOutput wraps a single tag response for Huma.
type TagOutput struct {
	Body TagResponse
}

// ListTagsInput contains parameters for listing tags.
type ListTagsInput struct {
	Authorization string `header:"Authorization"`
	Limit         int    `query:"limit" doc:"Items per page (max 100)"`
	Offset        int    `query:"offset" doc:"Rows to skip"`
}

// ListTagsResponse contains a list of tags.
type ListTagsResponse struct {
	Tags []TagResponse `json:"tags" doc:"List of tags"`
}

// ListTagsOutput wraps the tag list for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// TagRequest is the request body for creating or renaming a tag.
type TagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100" doc:"Tag name"`
}

// CreateTagInput wraps the create request for Huma.
type CreateTagInput struct {
	Authorization string `header:"Authorization"`
	Body          TagRequest
}

// GetTagInput contains the tag ID path parameter.
type GetTagInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Tag ID"`
}

// UpdateTagInput wraps the rename request for Huma.
type UpdateTagInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Tag ID"`
	Body          TagRequest
}

// DeleteTagInput contains the tag ID path parameter.
type DeleteTagInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Tag ID"`
}

// GetTagWorksInput contains parameters for listing a tag's works.
type GetTagWorksInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Tag ID"`
	Limit         int    `query:"limit" doc:"Items per page (max 100)"`
	Offset        int    `query:"offset" doc:"Rows to skip"`
	Order         string `query:"order" enum:"asc,desc" doc:"Sort by creation time"`
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, input *ListTagsInput) (*ListTagsOutput, error) {
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.List(ctx, parsePagination(input.Limit, input.Offset))
	if err != nil {
		return nil, err
	}

	resp := ListTagsResponse{Tags: make([]TagResponse, 0, len(tags))}
	for _, tag := range tags {
		resp.Tags = append(resp.Tags, mapTagResponse(tag))
	}
	return &ListTagsOutput{Body: resp}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.Create(ctx, claims, service.TagRequest{
		Name: input.Body.Name,
	})
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: mapTagResponse(tag)}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *GetTagInput) (*TagOutput, error) {
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}

	detail, err := s.services.Tag.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := mapTagResponse(detail.Tag)
	resp.WorkIDs = detail.WorkIDs
	if resp.WorkIDs == nil {
		resp.WorkIDs = []string{}
	}
	return &TagOutput{Body: resp}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.Update(ctx, claims, input.ID, service.TagRequest{
		Name: input.Body.Name,
	})
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: mapTagResponse(tag)}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*MessageOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Tag.Delete(ctx, claims, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{
		Body: MessageResponse{Message: "Tag deleted"},
	}, nil
}

func (s *Server) handleGetTagWorks(ctx context.Context, input *GetTagWorksInput) (*ListWorksOutput, error) {
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}

	// 404 for unknown tags instead of an empty list.
	if _, err := s.services.Tag.Get(ctx, input.ID); err != nil {
		return nil, err
	}

	works, err := s.services.Work.List(ctx,
		parsePagination(input.Limit, input.Offset),
		store.WorkFilter{
			TagID: input.ID,
			Order: store.SortOrder(input.Order),
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

// mapTagResponse converts a domain tag to the API shape.
func mapTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		DeletedAt: t.DeletedAt,
	}
}
