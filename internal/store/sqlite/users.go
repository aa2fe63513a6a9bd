package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, created_at, updated_at, deleted_at, email,
	password_hash, role, given_name, family_name`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		createdAt string
		updatedAt sql.NullString
		deletedAt sql.NullString
		role      string
	)

	err := scanner.Scan(
		&u.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.GivenName,
		&u.FamilyName,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseNullableTime(updatedAt)
	if err != nil {
		return nil, err
	}
	u.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	u.Role = domain.Role(role)

	return &u, nil
}

// CreateUser inserts a new user.
// Returns store.ErrEmailExists when a live user already holds the email.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, created_at, updated_at, deleted_at, email, email_lower,
			password_hash, role, given_name, family_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		formatTime(user.CreatedAt),
		formatNullableTime(user.UpdatedAt),
		formatNullableTime(user.DeletedAt),
		user.Email,
		strings.ToLower(user.Email),
		user.PasswordHash,
		string(user.Role),
		user.GivenName,
		user.FamilyName,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrEmailExists
		}
		return err
	}
	return nil
}

// GetUser retrieves a user by ID, including soft-deleted ones.
// Returns store.ErrUserNotFound if the row does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail retrieves a live user by email, case-insensitively.
// Returns store.ErrUserNotFound if no live user holds the email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE email_lower = ? AND deleted_at IS NULL`,
		strings.ToLower(email))

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser persists all mutable user fields, including soft-delete state.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET updated_at = ?, deleted_at = ?, email = ?, email_lower = ?,
			password_hash = ?, role = ?, given_name = ?, family_name = ?
		WHERE id = ?`,
		formatNullableTime(user.UpdatedAt),
		formatNullableTime(user.DeletedAt),
		user.Email,
		strings.ToLower(user.Email),
		user.PasswordHash,
		string(user.Role),
		user.GivenName,
		user.FamilyName,
		user.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrEmailExists
		}
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// ListUsers returns live users ordered by creation time, with optional
// partial email filtering.
func (s *Store) ListUsers(ctx context.Context, params store.PaginationParams, filter store.UserFilter) ([]*domain.User, error) {
	params.Validate()

	query := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL`
	args := []any{}

	if filter.Email != "" {
		query += ` AND email_lower LIKE ?`
		args = append(args, "%"+strings.ToLower(filter.Email)+"%")
	}

	query += ` ORDER BY created_at ` + orderDirection(filter.Order.Normalize() == store.SortAsc)
	query += ` LIMIT ? OFFSET ?`
	args = append(args, params.Limit, params.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// EmailExists reports whether a live user holds the email, case-insensitively.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE email_lower = ? AND deleted_at IS NULL`,
		strings.ToLower(email)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
