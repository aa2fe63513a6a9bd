package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/users",
		Summary:     "Register user",
		Description: "Creates a new user account. The first account on the server becomes admin.",
		Tags:        []string{"Users"},
	}, s.handleCreateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users",
		Summary:     "List users",
		Description: "Returns all live users. Admin only.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "aboutMe",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/about_me",
		Summary:     "Current user",
		Description: "Returns the authenticated user's account",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAboutMe)

	huma.Register(s.api, huma.Operation{
		OperationID: "isUniqueEmail",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/is_unique_email",
		Summary:     "Check email availability",
		Description: "Reports whether an email is free among live accounts. The check is advisory; registration can still race.",
		Tags:        []string{"Users"},
	}, s.handleIsUniqueEmail)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get user",
		Description: "Returns a user by ID. Only the account owner or an admin.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateUser",
		Method:      http.MethodPut,
		Path:        "/api/v1/users/{id}",
		Summary:     "Update user",
		Description: "Replaces the writable profile fields. Only the account owner or an admin. Role changes require admin.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "changePassword",
		Method:      http.MethodPut,
		Path:        "/api/v1/users/{id}/password",
		Summary:     "Change password",
		Description: "Sets a new password and revokes every session of the account. Only the account owner or an admin.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleChangePassword)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{id}",
		Summary:     "Delete user",
		Description: "Soft-deletes the account and revokes its sessions. Only the account owner or an admin.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteUser)
}

// === DTOs ===

// UserResponse contains user information in API responses.
type UserResponse struct {
	ID         string     `json:"id" doc:"User ID"`
	Email      string     `json:"email" doc:"User email"`
	Role       string     `json:"role" doc:"User role (member or admin)"`
	GivenName  string     `json:"given_name" doc:"Given name"`
	FamilyName string     `json:"family_name" doc:"Family name"`
	CreatedAt  time.Time  `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty" doc:"Last update timestamp"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" doc:"Deletion timestamp, set when the account is soft-deleted"`
}

// CreateUserRequest is the request body for registration.
type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email,max=254" doc:"Email address"`
	Password   string `json:"password" validate:"required,min=6,max=1024" doc:"Password"`
	GivenName  string `json:"given_name,omitempty" validate:"omitempty,max=255" doc:"Given name"`
	FamilyName string `json:"family_name,omitempty" validate:"omitempty,max=255" doc:"Family name"`
}

// CreateUserInput wraps the registration request for Huma.
type CreateUserInput struct {
	Body CreateUserRequest
}

// UserOutput wraps a single user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// ListUsersInput contains parameters for listing users.
type ListUsersInput struct {
	Authorization string `header:"Authorization"`
	Limit         int    `query:"limit" doc:"Items per page (max 100)"`
	Offset        int    `query:"offset" doc:"Rows to skip"`
	Email         string `query:"email" doc:"Partial email filter"`
	Order         string `query:"order" enum:"asc,desc" doc:"Sort by creation time"`
}

// ListUsersResponse contains a list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users" doc:"List of users"`
}

// ListUsersOutput wraps the user list for Huma.
type ListUsersOutput struct {
	Body ListUsersResponse
}

// AboutMeInput contains the auth header for the current-user lookup.
type AboutMeInput struct {
	Authorization string `header:"Authorization"`
}

// IsUniqueEmailRequest is the request body for the email availability check.
type IsUniqueEmailRequest struct {
	Email string `json:"email" validate:"required,email,max=254" doc:"Email to check"`
}

// IsUniqueEmailInput wraps the availability check for Huma.
type IsUniqueEmailInput struct {
	Body IsUniqueEmailRequest
}

// IsUniqueEmailResponse reports email availability.
type IsUniqueEmailResponse struct {
	Unique bool `json:"unique" doc:"True when no live account holds the email"`
}

// IsUniqueEmailOutput wraps the availability response for Huma.
type IsUniqueEmailOutput struct {
	Body IsUniqueEmailResponse
}

// GetUserInput contains the user ID path parameter.
type GetUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

// UpdateUserRequest is the request body for a profile update.
type UpdateUserRequest struct {
	Email      string `json:"email" validate:"required,email,max=254" doc:"Email address"`
	GivenName  string `json:"given_name,omitempty" validate:"omitempty,max=255" doc:"Given name"`
	FamilyName string `json:"family_name,omitempty" validate:"omitempty,max=255" doc:"Family name"`
	Role       string `json:"role,omitempty" validate:"omitempty,oneof=member admin" enum:"member,admin" doc:"Account role. Omit to keep the current one; only admins may change it."`
}

// UpdateUserInput wraps the profile update for Huma.
type UpdateUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
	Body          UpdateUserRequest
}

// ChangePasswordRequest is the request body for a password change.
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=1024" doc:"New password"`
}

// ChangePasswordInput wraps the password change for Huma.
type ChangePasswordInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
	Body          ChangePasswordRequest
}

// DeleteUserInput contains the user ID path parameter.
type DeleteUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

// === Handlers ===

func (s *Server) handleCreateUser(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
	user, err := s.services.User.Create(ctx, service.CreateUserRequest{
		Email:      input.Body.Email,
		Password:   input.Body.Password,
		GivenName:  input.Body.GivenName,
		FamilyName: input.Body.FamilyName,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.User.List(ctx,
		parsePagination(input.Limit, input.Offset),
		store.UserFilter{
			Email: input.Email,
			Order: store.SortOrder(input.Order),
		})
	if err != nil {
		return nil, err
	}

	resp := ListUsersResponse{Users: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, mapUserResponse(u))
	}
	return &ListUsersOutput{Body: resp}, nil
}

func (s *Server) handleAboutMe(ctx context.Context, input *AboutMeInput) (*UserOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleIsUniqueEmail(ctx context.Context, input *IsUniqueEmailInput) (*IsUniqueEmailOutput, error) {
	unique, err := s.services.User.IsUniqueEmail(ctx, input.Body.Email)
	if err != nil {
		return nil, err
	}

	return &IsUniqueEmailOutput{
		Body: IsUniqueEmailResponse{Unique: unique},
	}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := requireSelfOrAdmin(claims, input.ID); err != nil {
		return nil, err
	}

	user, err := s.services.User.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleUpdateUser(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := requireSelfOrAdmin(claims, input.ID); err != nil {
		return nil, err
	}
	// Roles are granted by admins, never self-assigned.
	if input.Body.Role != "" && !claims.IsAdmin() {
		return nil, domainerrors.Forbidden("Only admins may change roles")
	}

	user, err := s.services.User.Update(ctx, input.ID, service.UpdateUserRequest{
		Email:      input.Body.Email,
		GivenName:  input.Body.GivenName,
		FamilyName: input.Body.FamilyName,
		Role:       input.Body.Role,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleChangePassword(ctx context.Context, input *ChangePasswordInput) (*MessageOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := requireSelfOrAdmin(claims, input.ID); err != nil {
		return nil, err
	}

	err = s.services.User.ChangePassword(ctx, input.ID, service.ChangePasswordRequest{
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &MessageOutput{
		Body: MessageResponse{Message: "Password changed, all sessions revoked"},
	}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, input *DeleteUserInput) (*MessageOutput, error) {
	claims, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := requireSelfOrAdmin(claims, input.ID); err != nil {
		return nil, err
	}

	if err := s.services.User.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{
		Body: MessageResponse{Message: "Account deleted"},
	}, nil
}

// mapUserResponse converts a domain user to the API shape.
// The password hash never leaves the service layer.
func mapUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Role:       string(u.Role),
		GivenName:  u.GivenName,
		FamilyName: u.FamilyName,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
		DeletedAt:  u.DeletedAt,
	}
}
