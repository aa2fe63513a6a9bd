package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// commentColumns is the ordered list of columns selected in comment queries.
// Must match the scan order in scanComment.
const commentColumns = `id, created_at, updated_at, deleted_at, text, work_id, user_id`

// scanComment scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.WorkComment.
func scanComment(scanner interface{ Scan(dest ...any) error }) (*domain.WorkComment, error) {
	var c domain.WorkComment

	var (
		createdAt string
		updatedAt sql.NullString
		deletedAt sql.NullString
	)

	err := scanner.Scan(
		&c.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&c.Text,
		&c.WorkID,
		&c.UserID,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseNullableTime(updatedAt)
	if err != nil {
		return nil, err
	}
	c.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateComment inserts a new work comment.
func (s *Store) CreateComment(ctx context.Context, comment *domain.WorkComment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO work_comments (id, created_at, updated_at, deleted_at, text, work_id, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		comment.ID,
		formatTime(comment.CreatedAt),
		formatNullableTime(comment.UpdatedAt),
		formatNullableTime(comment.DeletedAt),
		comment.Text,
		comment.WorkID,
		comment.UserID,
	)
	return err
}

// GetComment retrieves a comment by ID, including soft-deleted ones.
// Returns store.ErrCommentNotFound if the row does not exist.
func (s *Store) GetComment(ctx context.Context, id string) (*domain.WorkComment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM work_comments WHERE id = ?`, id)

	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateComment persists all mutable comment fields, including soft-delete state.
func (s *Store) UpdateComment(ctx context.Context, comment *domain.WorkComment) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE work_comments
		SET updated_at = ?, deleted_at = ?, text = ?
		WHERE id = ?`,
		formatNullableTime(comment.UpdatedAt),
		formatNullableTime(comment.DeletedAt),
		comment.Text,
		comment.ID,
	)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrCommentNotFound
	}
	return nil
}

// ListComments returns live comments ordered by creation time, optionally
// scoped to a single work.
func (s *Store) ListComments(ctx context.Context, params store.PaginationParams, filter store.CommentFilter) ([]*domain.WorkComment, error) {
	params.Validate()

	query := `SELECT ` + commentColumns + ` FROM work_comments WHERE deleted_at IS NULL`
	args := []any{}

	if filter.WorkID != "" {
		query += ` AND work_id = ?`
		args = append(args, filter.WorkID)
	}

	query += ` ORDER BY created_at ` + orderDirection(filter.Order.Normalize() == store.SortAsc)
	query += ` LIMIT ? OFFSET ?`
	args = append(args, params.Limit, params.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.WorkComment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
