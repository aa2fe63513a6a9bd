package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// TagService handles the shared tag vocabulary. Any member may create tags;
// renames and deletions require the tag's creator or an admin.
type TagService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, validator *validation.Validator, logger *slog.Logger) *TagService {
	return &TagService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// TagRequest contains the writable fields of a tag.
type TagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// TagDetail is a tag together with the IDs of live works carrying it.
type TagDetail struct {
	*domain.Tag
	WorkIDs []string `json:"work_ids"`
}

// Create stores a new tag attached to its creator.
func (s *TagService) Create(ctx context.Context, actor *auth.AccessClaims, req TagRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	tag := &domain.Tag{
		Record: domain.Record{
			ID:        tagID,
			CreatedAt: time.Now(),
		},
		Name: req.Name,
	}

	if err := s.store.CreateTag(ctx, tag, actor.UserID); err != nil {
		if domainerrors.Is(err, store.ErrTagNameExists) {
			return nil, domainerrors.AlreadyExists("tag name is already taken")
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.logger.Info("tag created", "tag_id", tag.ID, "name", tag.Name, "user_id", actor.UserID)
	return tag, nil
}

// Get retrieves a tag with the IDs of live works carrying it.
func (s *TagService) Get(ctx context.Context, tagID string) (*TagDetail, error) {
	tag, err := s.getTag(ctx, tagID)
	if err != nil {
		return nil, err
	}

	workIDs, err := s.store.ListTagWorkIDs(ctx, tagID)
	if err != nil {
		return nil, fmt.Errorf("list tag works: %w", err)
	}

	return &TagDetail{Tag: tag, WorkIDs: workIDs}, nil
}

// Update renames a tag. Only the creator or an admin may rename it.
func (s *TagService) Update(ctx context.Context, actor *auth.AccessClaims, tagID string, req TagRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	tag, err := s.getTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if tag.IsDeleted() {
		return nil, domainerrors.Conflict("tag is deleted")
	}
	if err := s.requireCreatorOrAdmin(ctx, actor, tagID); err != nil {
		return nil, err
	}

	tag.Name = req.Name
	tag.Touch()

	if err := s.store.UpdateTag(ctx, tag); err != nil {
		if domainerrors.Is(err, store.ErrTagNameExists) {
			return nil, domainerrors.AlreadyExists("tag name is already taken")
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return tag, nil
}

// Delete soft-deletes a tag. Only the creator or an admin may delete it.
// Works keep their association; the tag just stops resolving by name.
func (s *TagService) Delete(ctx context.Context, actor *auth.AccessClaims, tagID string) error {
	tag, err := s.getTag(ctx, tagID)
	if err != nil {
		return err
	}
	if tag.IsDeleted() {
		return domainerrors.NotFound("tag not found")
	}
	if err := s.requireCreatorOrAdmin(ctx, actor, tagID); err != nil {
		return err
	}

	tag.MarkDeleted()
	if err := s.store.UpdateTag(ctx, tag); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	s.logger.Info("tag deleted", "tag_id", tagID, "user_id", actor.UserID)
	return nil
}

// List returns live tags ordered by name.
func (s *TagService) List(ctx context.Context, params store.PaginationParams) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (s *TagService) getTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		if domainerrors.Is(err, store.ErrTagNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

func (s *TagService) requireCreatorOrAdmin(ctx context.Context, actor *auth.AccessClaims, tagID string) error {
	if actor.IsAdmin() {
		return nil
	}
	has, err := s.store.UserHasTag(ctx, actor.UserID, tagID)
	if err != nil {
		return fmt.Errorf("check tag creator: %w", err)
	}
	if !has {
		return domainerrors.Forbidden("only the tag's creator or an admin may modify it")
	}
	return nil
}
