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

// WorkService handles authored works: creation, updates, tagging, and soft
// deletion. Mutations require the owner or an admin.
type WorkService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewWorkService creates a new work service.
func NewWorkService(store store.Store, validator *validation.Validator, logger *slog.Logger) *WorkService {
	return &WorkService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateWorkRequest contains the writable fields of a new work.
type CreateWorkRequest struct {
	Theme  string   `json:"theme" validate:"required,max=255"`
	Text   string   `json:"text" validate:"required"`
	Price  int64    `json:"price" validate:"gte=0"`
	TagIDs []string `json:"tag_ids"`
}

// UpdateWorkRequest contains the full writable state of a work. Updates
// replace every writable field, including the tag set.
type UpdateWorkRequest struct {
	Theme  string   `json:"theme" validate:"required,max=255"`
	Text   string   `json:"text" validate:"required"`
	Price  int64    `json:"price" validate:"gte=0"`
	TagIDs []string `json:"tag_ids"`
}

// Create stores a new work owned by the actor.
func (s *WorkService) Create(ctx context.Context, actor *auth.AccessClaims, req CreateWorkRequest) (*domain.Work, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.checkTags(ctx, req.TagIDs); err != nil {
		return nil, err
	}

	workID, err := id.Generate("work")
	if err != nil {
		return nil, fmt.Errorf("generate work ID: %w", err)
	}

	work := &domain.Work{
		Record: domain.Record{
			ID:        workID,
			CreatedAt: time.Now(),
		},
		Theme:  req.Theme,
		Text:   req.Text,
		Price:  req.Price,
		UserID: actor.UserID,
		TagIDs: req.TagIDs,
	}

	if err := s.store.CreateWork(ctx, work); err != nil {
		return nil, fmt.Errorf("create work: %w", err)
	}

	s.logger.Info("work created", "work_id", work.ID, "user_id", actor.UserID)
	return work, nil
}

// Get retrieves a work by ID, including soft-deleted ones.
func (s *WorkService) Get(ctx context.Context, workID string) (*domain.Work, error) {
	work, err := s.store.GetWork(ctx, workID)
	if err != nil {
		if domainerrors.Is(err, store.ErrWorkNotFound) {
			return nil, domainerrors.NotFound("work not found")
		}
		return nil, fmt.Errorf("get work: %w", err)
	}
	return work, nil
}

// Update replaces the writable state of a work. Only the owner or an admin
// may update it.
func (s *WorkService) Update(ctx context.Context, actor *auth.AccessClaims, workID string, req UpdateWorkRequest) (*domain.Work, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	work, err := s.Get(ctx, workID)
	if err != nil {
		return nil, err
	}
	if work.IsDeleted() {
		return nil, domainerrors.Conflict("work is deleted")
	}
	if err := s.requireOwnerOrAdmin(actor, work); err != nil {
		return nil, err
	}
	if err := s.checkTags(ctx, req.TagIDs); err != nil {
		return nil, err
	}

	work.Theme = req.Theme
	work.Text = req.Text
	work.Price = req.Price
	work.TagIDs = req.TagIDs
	work.Touch()

	if err := s.store.UpdateWork(ctx, work); err != nil {
		return nil, fmt.Errorf("update work: %w", err)
	}
	return work, nil
}

// Delete soft-deletes a work. Only the owner or an admin may delete it.
// The work stays reachable by ID so its comments keep their context.
func (s *WorkService) Delete(ctx context.Context, actor *auth.AccessClaims, workID string) error {
	work, err := s.Get(ctx, workID)
	if err != nil {
		return err
	}
	if work.IsDeleted() {
		return domainerrors.NotFound("work not found")
	}
	if err := s.requireOwnerOrAdmin(actor, work); err != nil {
		return err
	}

	work.MarkDeleted()
	if err := s.store.UpdateWork(ctx, work); err != nil {
		return fmt.Errorf("delete work: %w", err)
	}

	s.logger.Info("work deleted", "work_id", workID, "user_id", actor.UserID)
	return nil
}

// List returns live works with pagination and optional owner or tag filters.
func (s *WorkService) List(ctx context.Context, params store.PaginationParams, filter store.WorkFilter) ([]*domain.Work, error) {
	works, err := s.store.ListWorks(ctx, params, filter)
	if err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}
	return works, nil
}

// requireOwnerOrAdmin rejects actors who neither own the work nor hold the
// admin role.
func (s *WorkService) requireOwnerOrAdmin(actor *auth.AccessClaims, work *domain.Work) error {
	if work.IsOwnedBy(actor.UserID) || actor.IsAdmin() {
		return nil
	}
	return domainerrors.Forbidden("only the owner or an admin may modify this work")
}

// checkTags verifies every referenced tag exists and is live.
func (s *WorkService) checkTags(ctx context.Context, tagIDs []string) error {
	for _, tagID := range tagIDs {
		tag, err := s.store.GetTag(ctx, tagID)
		if err != nil {
			if domainerrors.Is(err, store.ErrTagNotFound) {
				return domainerrors.Validationf("unknown tag %q", tagID)
			}
			return fmt.Errorf("check tag: %w", err)
		}
		if tag.IsDeleted() {
			return domainerrors.Validationf("tag %q is deleted", tagID)
		}
	}
	return nil
}
