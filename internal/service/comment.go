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

// CommentService handles comments on works. Mutations require the comment's
// author or an admin.
type CommentService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(store store.Store, validator *validation.Validator, logger *slog.Logger) *CommentService {
	return &CommentService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateCommentRequest contains a new comment and the work it belongs to.
type CreateCommentRequest struct {
	Text   string `json:"text" validate:"required,max=4000"`
	WorkID string `json:"work_id" validate:"required"`
}

// UpdateCommentRequest contains the writable fields of an existing comment.
type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

// Create stores a new comment authored by the actor on a live work.
func (s *CommentService) Create(ctx context.Context, actor *auth.AccessClaims, req CreateCommentRequest) (*domain.WorkComment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	work, err := s.store.GetWork(ctx, req.WorkID)
	if err != nil {
		if domainerrors.Is(err, store.ErrWorkNotFound) {
			return nil, domainerrors.NotFound("work not found")
		}
		return nil, fmt.Errorf("get work: %w", err)
	}
	if work.IsDeleted() {
		return nil, domainerrors.Conflict("work is deleted")
	}

	commentID, err := id.Generate("comment")
	if err != nil {
		return nil, fmt.Errorf("generate comment ID: %w", err)
	}

	comment := &domain.WorkComment{
		Record: domain.Record{
			ID:        commentID,
			CreatedAt: time.Now(),
		},
		Text:   req.Text,
		WorkID: work.ID,
		UserID: actor.UserID,
	}

	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.Info("comment created", "comment_id", comment.ID, "work_id", work.ID, "user_id", actor.UserID)
	return comment, nil
}

// Get retrieves a comment by ID, including soft-deleted ones.
func (s *CommentService) Get(ctx context.Context, commentID string) (*domain.WorkComment, error) {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		if domainerrors.Is(err, store.ErrCommentNotFound) {
			return nil, domainerrors.NotFound("comment not found")
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

// Update edits a comment's text. Only the author or an admin may edit it.
func (s *CommentService) Update(ctx context.Context, actor *auth.AccessClaims, commentID string, req UpdateCommentRequest) (*domain.WorkComment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	comment, err := s.Get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.IsDeleted() {
		return nil, domainerrors.Conflict("comment is deleted")
	}
	if err := s.requireAuthorOrAdmin(actor, comment); err != nil {
		return nil, err
	}

	comment.Text = req.Text
	comment.Touch()

	if err := s.store.UpdateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

// Delete soft-deletes a comment. Only the author or an admin may delete it.
func (s *CommentService) Delete(ctx context.Context, actor *auth.AccessClaims, commentID string) error {
	comment, err := s.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.IsDeleted() {
		return domainerrors.NotFound("comment not found")
	}
	if err := s.requireAuthorOrAdmin(actor, comment); err != nil {
		return err
	}

	comment.MarkDeleted()
	if err := s.store.UpdateComment(ctx, comment); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	s.logger.Info("comment deleted", "comment_id", commentID, "user_id", actor.UserID)
	return nil
}

// List returns live comments, optionally scoped to one work.
func (s *CommentService) List(ctx context.Context, params store.PaginationParams, filter store.CommentFilter) ([]*domain.WorkComment, error) {
	comments, err := s.store.ListComments(ctx, params, filter)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) requireAuthorOrAdmin(actor *auth.AccessClaims, comment *domain.WorkComment) error {
	if comment.IsAuthoredBy(actor.UserID) || actor.IsAdmin() {
		return nil
	}
	return domainerrors.Forbidden("only the comment's author or an admin may modify it")
}
