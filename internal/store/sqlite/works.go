package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// workColumns is the ordered list of columns selected in work queries.
// Must match the scan order in scanWork.
const workColumns = `id, created_at, updated_at, deleted_at, theme, text, price, user_id`

// scanWork scans a sql.Row (or sql.Rows via its Scan method) into a domain.Work.
// Tag IDs live in the work_tags join table and are loaded separately.
func scanWork(scanner interface{ Scan(dest ...any) error }) (*domain.Work, error) {
	var w domain.Work

	var (
		createdAt string
		updatedAt sql.NullString
		deletedAt sql.NullString
	)

	err := scanner.Scan(
		&w.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&w.Theme,
		&w.Text,
		&w.Price,
		&w.UserID,
	)
	if err != nil {
		return nil, err
	}

	w.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	w.UpdatedAt, err = parseNullableTime(updatedAt)
	if err != nil {
		return nil, err
	}
	w.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	return &w, nil
}

// CreateWork inserts a new work together with its tag set in one transaction.
func (s *Store) CreateWork(ctx context.Context, work *domain.Work) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO works (id, created_at, updated_at, deleted_at, theme, text, price, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		work.ID,
		formatTime(work.CreatedAt),
		formatNullableTime(work.UpdatedAt),
		formatNullableTime(work.DeletedAt),
		work.Theme,
		work.Text,
		work.Price,
		work.UserID,
	)
	if err != nil {
		return err
	}

	if err := replaceWorkTags(ctx, tx, work.ID, work.TagIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// GetWork retrieves a work by ID, including soft-deleted ones, with its tag IDs.
// Returns store.ErrWorkNotFound if the row does not exist.
func (s *Store) GetWork(ctx context.Context, id string) (*domain.Work, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+workColumns+` FROM works WHERE id = ?`, id)

	w, err := scanWork(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrWorkNotFound
	}
	if err != nil {
		return nil, err
	}

	w.TagIDs, err = s.workTagIDs(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateWork persists all mutable work fields and replaces the tag set in one
// transaction. Tag IDs are treated as the full desired set.
func (s *Store) UpdateWork(ctx context.Context, work *domain.Work) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		UPDATE works
		SET updated_at = ?, deleted_at = ?, theme = ?, text = ?, price = ?
		WHERE id = ?`,
		formatNullableTime(work.UpdatedAt),
		formatNullableTime(work.DeletedAt),
		work.Theme,
		work.Text,
		work.Price,
		work.ID,
	)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrWorkNotFound
	}

	if err := replaceWorkTags(ctx, tx, work.ID, work.TagIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// ListWorks returns live works ordered by creation time, optionally filtered
// by author or tag. Tag IDs are loaded for every returned work.
func (s *Store) ListWorks(ctx context.Context, params store.PaginationParams, filter store.WorkFilter) ([]*domain.Work, error) {
	params.Validate()

	query := `SELECT ` + workColumns + ` FROM works WHERE deleted_at IS NULL`
	args := []any{}

	if filter.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, filter.UserID)
	}
	if filter.TagID != "" {
		query += ` AND id IN (SELECT work_id FROM work_tags WHERE tag_id = ?)`
		args = append(args, filter.TagID)
	}

	query += ` ORDER BY created_at ` + orderDirection(filter.Order.Normalize() == store.SortAsc)
	query += ` LIMIT ? OFFSET ?`
	args = append(args, params.Limit, params.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var works []*domain.Work
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, err
		}
		works = append(works, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, w := range works {
		w.TagIDs, err = s.workTagIDs(ctx, w.ID)
		if err != nil {
			return nil, err
		}
	}
	return works, nil
}

// workTagIDs loads the tag IDs attached to a work, ordered by tag name for
// stable output.
func (s *Store) workTagIDs(ctx context.Context, workID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT wt.tag_id FROM work_tags wt
		JOIN tags t ON t.id = wt.tag_id
		WHERE wt.work_id = ?
		ORDER BY t.name ASC`,
		workID)
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

// replaceWorkTags rewrites the work_tags rows for a work inside tx.
func replaceWorkTags(ctx context.Context, tx *sql.Tx, workID string, tagIDs []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM work_tags WHERE work_id = ?`, workID); err != nil {
		return err
	}

	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO work_tags (work_id, tag_id) VALUES (?, ?)`,
			workID, tagID); err != nil {
			return err
		}
	}
	return nil
}
