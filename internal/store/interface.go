// Package store defines the persistence interface for the Inkwell server.
package store

import (
	"context"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// UserFilter narrows user listings.
type UserFilter struct {
	// Email filters by partial, case-insensitive match when non-empty.
	Email string
	// Order sorts by creation time.
	Order SortOrder
}

// WorkFilter narrows work listings.
type WorkFilter struct {
	// UserID restricts to a single owner when non-empty.
	UserID string
	// TagID restricts to works carrying the tag when non-empty.
	TagID string
	// Order sorts by creation time.
	Order SortOrder
}

// CommentFilter narrows comment listings.
type CommentFilter struct {
	// WorkID restricts to a single work when non-empty.
	WorkID string
	// Order sorts by creation time.
	Order SortOrder
}

// Store defines the interface for all persistence operations.
//
// Soft-delete policy: List* methods exclude soft-deleted rows; Get* methods
// return them, so related data stays reachable by ID after deletion.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	ListUsers(ctx context.Context, params PaginationParams, filter UserFilter) ([]*domain.User, error)
	// EmailExists reports whether a live (non-deleted) user holds the email.
	EmailExists(ctx context.Context, email string) (bool, error)

	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Works. Create and Update persist the work's tag set (both sides of the
	// association) in the same transaction as the row itself.
	CreateWork(ctx context.Context, work *domain.Work) error
	GetWork(ctx context.Context, id string) (*domain.Work, error)
	UpdateWork(ctx context.Context, work *domain.Work) error
	ListWorks(ctx context.Context, params PaginationParams, filter WorkFilter) ([]*domain.Work, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag, creatorUserID string) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	ListTags(ctx context.Context, params PaginationParams) ([]*domain.Tag, error)
	// ListTagWorkIDs returns IDs of live works carrying the tag.
	ListTagWorkIDs(ctx context.Context, tagID string) ([]string, error)
	// UserHasTag reports whether the user is attached to the tag.
	UserHasTag(ctx context.Context, userID, tagID string) (bool, error)

	// Work comments
	CreateComment(ctx context.Context, comment *domain.WorkComment) error
	GetComment(ctx context.Context, id string) (*domain.WorkComment, error)
	UpdateComment(ctx context.Context, comment *domain.WorkComment) error
	ListComments(ctx context.Context, params PaginationParams, filter CommentFilter) ([]*domain.WorkComment, error)
}
