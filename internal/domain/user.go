package domain

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleMember grants standard user access. Every account carries at least
	// this role.
	RoleMember Role = "member"
)

// User represents an authenticated user account in the system.
type User struct {
	Record
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Stored hashed, never serialized
	Role         Role   `json:"role"`
	GivenName    string `json:"given_name"`
	FamilyName   string `json:"family_name"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FullName returns the user's full name, composed from given and family names.
func (u *User) FullName() string {
	if u.GivenName == "" {
		return u.FamilyName
	}
	if u.FamilyName == "" {
		return u.GivenName
	}
	return u.GivenName + " " + u.FamilyName
}
