package psql

import (
	"context"
	"fmt"

	"github.com/fsdevblog/slugreg/internal/models"
	"github.com/fsdevblog/slugreg/internal/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type RecordRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Entry
}

func NewRecordRepo(pool *pgxpool.Pool, logger *logrus.Logger) *RecordRepo {
	return &RecordRepo{
		pool:   pool,
		logger: logger.WithField("module", "repository/psql/record"),
	}
}

func (r *RecordRepo) Create(ctx context.Context, rec *models.Record) error {
	query := `INSERT INTO records (sequence_id, slug, url, is_custom, minter, referrer)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		rec.SequenceID, rec.Slug, rec.URL, rec.IsCustom, rec.Minter, rec.Referrer,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", convertErrorType(err))
	}
	return nil
}

func (r *RecordRepo) GetBySlug(ctx context.Context, slug string) (*models.Record, error) {
	query := `SELECT id, sequence_id, slug, url, is_custom, minter, referrer
		FROM records WHERE slug = $1`
	var rec models.Record
	err := r.pool.QueryRow(ctx, query, slug).
		Scan(&rec.ID, &rec.SequenceID, &rec.Slug, &rec.URL, &rec.IsCustom, &rec.Minter, &rec.Referrer)
	if err != nil {
		return nil, fmt.Errorf("failed to get record by slug %s: %w", slug, convertErrorType(err))
	}
	return &rec, nil
}

func (r *RecordRepo) GetBySequenceID(ctx context.Context, sequenceID uint64) (*models.Record, error) {
	query := `SELECT id, sequence_id, slug, url, is_custom, minter, referrer
		FROM records WHERE sequence_id = $1`
	var rec models.Record
	err := r.pool.QueryRow(ctx, query, sequenceID).
		Scan(&rec.ID, &rec.SequenceID, &rec.Slug, &rec.URL, &rec.IsCustom, &rec.Minter, &rec.Referrer)
	if err != nil {
		return nil, fmt.Errorf("failed to get record by sequence id %d: %w", sequenceID, convertErrorType(err))
	}
	return &rec, nil
}

func (r *RecordRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM records WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug %s: %w", slug, convertErrorType(err))
	}
	return exists, nil
}

func (r *RecordRepo) UpdateURL(ctx context.Context, sequenceID uint64, rawURL string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE records SET url = $1, updated_at = now() WHERE sequence_id = $2`,
		rawURL, sequenceID,
	)
	if err != nil {
		return fmt.Errorf("failed to update url for sequence id %d: %w", sequenceID, convertErrorType(err))
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *RecordRepo) Delete(ctx context.Context, slug string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM records WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", slug, convertErrorType(err))
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *RecordRepo) MaxSequenceID(ctx context.Context) (uint64, error) {
	var maxID uint64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(sequence_id), 0) FROM records`).Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("failed to get max sequence id: %w", convertErrorType(err))
	}
	return maxID, nil
}
