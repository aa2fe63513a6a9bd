package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, created_at, updated_at, deleted_at, name`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var (
		createdAt string
		updatedAt sql.NullString
		deletedAt sql.NullString
	)

	err := scanner.Scan(
		&t.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&t.Name,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseNullableTime(updatedAt)
	if err != nil {
		return nil, err
	}
	t.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTag inserts a new tag and attaches its creator in the same transaction.
// Returns store.ErrTagNameExists on duplicate name among live tags.
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag, creatorUserID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tags (id, created_at, updated_at, deleted_at, name)
		VALUES (?, ?, ?, ?, ?)`,
		tag.ID,
		formatTime(tag.CreatedAt),
		formatNullableTime(tag.UpdatedAt),
		formatNullableTime(tag.DeletedAt),
		tag.Name,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrTagNameExists
		}
		return err
	}

	if creatorUserID != "" {
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO user_tags (user_id, tag_id) VALUES (?, ?)`,
			creatorUserID, tag.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetTag retrieves a tag by ID, including soft-deleted ones.
// Returns store.ErrTagNotFound if the row does not exist.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagByName retrieves a live tag by exact name.
// Returns store.ErrTagNotFound if no live tag holds the name.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE name = ? AND deleted_at IS NULL`, name)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTag persists all mutable tag fields, including soft-delete state.
func (s *Store) UpdateTag(ctx context.Context, tag *domain.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tags
		SET updated_at = ?, deleted_at = ?, name = ?
		WHERE id = ?`,
		formatNullableTime(tag.UpdatedAt),
		formatNullableTime(tag.DeletedAt),
		tag.Name,
		tag.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrTagNameExists
		}
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrTagNotFound
	}
	return nil
}

// ListTags returns live tags ordered by name.
func (s *Store) ListTags(ctx context.Context, params store.PaginationParams) ([]*domain.Tag, error) {
	params.Validate()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags
		 WHERE deleted_at IS NULL
		 ORDER BY name ASC
		 LIMIT ? OFFSET ?`,
		params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ListTagWorkIDs returns IDs of live works carrying the tag, newest first.
func (s *Store) ListTagWorkIDs(ctx context.Context, tagID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT w.id FROM works w
		JOIN work_tags wt ON wt.work_id = w.id
		WHERE wt.tag_id = ? AND w.deleted_at IS NULL
		ORDER BY w.created_at DESC`,
		tagID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UserHasTag reports whether the user is attached to the tag.
func (s *Store) UserHasTag(ctx context.Context, userID, tagID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM user_tags WHERE user_id = ? AND tag_id = ?`,
		userID, tagID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
