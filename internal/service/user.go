package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// UserService handles account management: registration, profile updates,
// password changes, and soft deletion.
type UserService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger

	// bootstrapMu serializes the first-user check against the insert, so
	// concurrent initial registrations produce exactly one admin.
	bootstrapMu sync.Mutex
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, validator *validation.Validator, logger *slog.Logger) *UserService {
	return &UserService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateUserRequest contains registration data.
type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6,max=1024"`
	GivenName  string `json:"given_name" validate:"max=255"`
	FamilyName string `json:"family_name" validate:"max=255"`
}

// UpdateUserRequest contains the full writable profile. Updates replace every
// writable field; omitted fields are cleared, not kept. Role is the
// exception: an empty role leaves the current one in place.
type UpdateUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	GivenName  string `json:"given_name" validate:"max=255"`
	FamilyName string `json:"family_name" validate:"max=255"`
	// Role changes the account role when non-empty. The handler restricts
	// role changes to admin callers.
	Role string `json:"role,omitempty" validate:"omitempty,oneof=member admin"`
}

// ChangePasswordRequest carries a new password for an account.
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=1024"`
}

// Create registers a new user. The very first account on the server becomes
// admin; everyone after that is a regular member.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Advisory pre-check for a friendly error. The partial unique index on
	// live emails stays authoritative under races.
	exists, err := s.store.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, domainerrors.AlreadyExists("email is already registered")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	s.bootstrapMu.Lock()
	defer s.bootstrapMu.Unlock()

	role := domain.RoleMember
	first, err := s.isFirstUser(ctx)
	if err != nil {
		return nil, err
	}
	if first {
		role = domain.RoleAdmin
	}

	user := &domain.User{
		Record: domain.Record{
			ID:        userID,
			CreatedAt: time.Now(),
		},
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         role,
		GivenName:    req.GivenName,
		FamilyName:   req.FamilyName,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists("email is already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", string(user.Role))
	return user, nil
}

// Get retrieves a user by ID, including soft-deleted accounts.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Update replaces the writable profile of a live account.
// Only the account owner or an admin may call this; the handler enforces it.
func (s *UserService) Update(ctx context.Context, userID string, req UpdateUserRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsDeleted() {
		return nil, domainerrors.Conflict("account is deleted")
	}

	user.Email = req.Email
	user.GivenName = req.GivenName
	user.FamilyName = req.FamilyName
	if req.Role != "" {
		user.Role = domain.Role(req.Role)
	}
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists("email is already registered")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ChangePassword sets a new password and revokes every session of the
// account, forcing a fresh login everywhere.
func (s *UserService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsDeleted() {
		return domainerrors.Conflict("account is deleted")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if err := s.store.DeleteUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// Delete soft-deletes the account and revokes its sessions. The email becomes
// available for registration again.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsDeleted() {
		return domainerrors.NotFound("user not found")
	}

	user.MarkDeleted()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.store.DeleteUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	s.logger.Info("user deleted", "user_id", userID)
	return nil
}

// List returns live users with pagination and optional email filtering.
func (s *UserService) List(ctx context.Context, params store.PaginationParams, filter store.UserFilter) ([]*domain.User, error) {
	users, err := s.store.ListUsers(ctx, params, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// IsUniqueEmail reports whether the email is free among live accounts.
func (s *UserService) IsUniqueEmail(ctx context.Context, email string) (bool, error) {
	exists, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return !exists, nil
}

// isFirstUser reports whether no live account exists yet.
func (s *UserService) isFirstUser(ctx context.Context) (bool, error) {
	users, err := s.store.ListUsers(ctx, store.PaginationParams{Limit: 1}, store.UserFilter{})
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return len(users) == 0, nil
}
