// Package service implements the application logic between the HTTP API and
// the store. Services validate input, enforce access rules, and translate
// store errors into domain errors.
package service

import (
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// Services bundles all application services for injection into the API layer.
type Services struct {
	Auth    *AuthService
	Session *SessionService
	User    *UserService
	Work    *WorkService
	Tag     *TagService
	Comment *CommentService
}

// NewServices wires up the full service layer.
func NewServices(
	st store.Store,
	tokenService *auth.TokenService,
	validator *validation.Validator,
	logger *slog.Logger,
) *Services {
	sessions := NewSessionService(st, tokenService, logger)

	return &Services{
		Auth:    NewAuthService(st, tokenService, sessions, validator, logger),
		Session: sessions,
		User:    NewUserService(st, validator, logger),
		Work:    NewWorkService(st, validator, logger),
		Tag:     NewTagService(st, validator, logger),
		Comment: NewCommentService(st, validator, logger),
	}
}
