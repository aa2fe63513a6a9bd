package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// authenticateRequest validates the Authorization header and returns the
// token's claims.
func (s *Server) authenticateRequest(authHeader string) (*auth.AccessClaims, error) {
	if authHeader == "" {
		return nil, huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, huma.Error401Unauthorized("Invalid authorization header format")
	}

	claims, err := s.services.Auth.VerifyAccessToken(parts[1])
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid or expired token")
	}

	return claims, nil
}

// authenticateAndRequireAdmin validates the token and requires the admin role.
func (s *Server) authenticateAndRequireAdmin(authHeader string) (*auth.AccessClaims, error) {
	claims, err := s.authenticateRequest(authHeader)
	if err != nil {
		return nil, err
	}
	if !claims.IsAdmin() {
		return nil, domainerrors.Forbidden("Admin access required")
	}
	return claims, nil
}

// requireSelfOrAdmin rejects actors who are neither the addressed user nor an
// admin.
func requireSelfOrAdmin(claims *auth.AccessClaims, userID string) error {
	if claims.UserID == userID || claims.IsAdmin() {
		return nil
	}
	return domainerrors.Forbidden("You may only manage your own account")
}

// parsePagination builds pagination parameters from query values.
func parsePagination(limit, offset int) store.PaginationParams {
	params := store.PaginationParams{Limit: limit, Offset: offset}
	params.Validate()
	return params
}

// extractIP picks the first usable client address from forwarding headers.
func extractIP(forwardedFor, realIP, remoteAddr string) string {
	if forwardedFor != "" {
		if i := strings.IndexByte(forwardedFor, ','); i >= 0 {
			return strings.TrimSpace(forwardedFor[:i])
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP != "" {
		return realIP
	}
	return remoteAddr
}
