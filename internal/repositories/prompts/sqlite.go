package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/promptsync/internal/common"
	"github.com/dmitrijs2005/promptsync/internal/dbx"
	"github.com/dmitrijs2005/promptsync/internal/models"
)

// SQLiteRepository implements Repository on a SQLite database. Timestamps
// are stored as epoch milliseconds to match the precision used on the
// remote side.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `id, title, content, tags, is_favorite, created_at, updated_at, last_used`

func scanRecord(scan func(dest ...any) error) (models.Record, error) {
	var (
		r        models.Record
		created  int64
		updated  int64
		lastUsed sql.NullInt64
	)
	if err := scan(&r.Id, &r.Title, &r.Content, &r.Tags, &r.IsFavorite, &created, &updated, &lastUsed); err != nil {
		return models.Record{}, err
	}
	r.CreatedAt = time.UnixMilli(created).UTC()
	r.UpdatedAt = time.UnixMilli(updated).UTC()
	if lastUsed.Valid {
		t := time.UnixMilli(lastUsed.Int64).UTC()
		r.LastUsed = &t
	}
	return r, nil
}

func lastUsedArg(r *models.Record) any {
	if r.LastUsed == nil {
		return nil
	}
	return r.LastUsed.UnixMilli()
}

func (s *SQLiteRepository) Insert(ctx context.Context, r *models.Record) error {
	query := `INSERT INTO prompts (` + selectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		r.Id, r.Title, r.Content, r.Tags, r.IsFavorite,
		r.CreatedAt.UnixMilli(), r.UpdatedAt.UnixMilli(), lastUsedArg(r))
	if err != nil {
		return fmt.Errorf("failed to insert prompt: %w", err)
	}
	return nil
}

func (s *SQLiteRepository) GetAll(ctx context.Context) ([]models.Record, error) {
	query := `SELECT ` + selectColumns + ` FROM prompts ORDER BY updated_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select prompts: %w", err)
	}
	defer rows.Close()

	var result []models.Record
	for rows.Next() {
		r, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	query := `SELECT ` + selectColumns + ` FROM prompts WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)

	r, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select prompt: %w", err)
	}
	return &r, nil
}

func (s *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prompt: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *SQLiteRepository) Touch(ctx context.Context, id string, when time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE prompts SET last_used = ? WHERE id = ?`, when.UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("failed to touch prompt: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Snapshot returns all prompts as they are right now. Local records carry no
// Bitable record id.
func (s *SQLiteRepository) Snapshot(ctx context.Context) ([]models.Record, error) {
	return s.GetAll(ctx)
}

// upsert writes one record by id, replacing every field on conflict. Used by
// both apply paths: sync resolution is whole-record, so an update replaces
// the row outright.
func upsert(ctx context.Context, tx dbx.DBTX, r *models.Record) error {
	query := `INSERT INTO prompts (` + selectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			tags = excluded.tags,
			is_favorite = excluded.is_favorite,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			last_used = excluded.last_used`
	_, err := tx.ExecContext(ctx, query,
		r.Id, r.Title, r.Content, r.Tags, r.IsFavorite,
		r.CreatedAt.UnixMilli(), r.UpdatedAt.UnixMilli(), lastUsedArg(r))
	return err
}

func (s *SQLiteRepository) ApplyCreates(ctx context.Context, records []models.Record) error {
	return s.applyBatch(ctx, records)
}

func (s *SQLiteRepository) ApplyUpdates(ctx context.Context, records []models.Record) error {
	return s.applyBatch(ctx, records)
}

func (s *SQLiteRepository) applyBatch(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for i := range records {
			if err := upsert(ctx, tx, &records[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply sync batch: %w", err)
	}
	return nil
}
