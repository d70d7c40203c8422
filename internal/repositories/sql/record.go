package sql

import (
	"context"

	"github.com/fsdevblog/slugreg/internal/models"
	"github.com/fsdevblog/slugreg/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RecordRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewRecordRepo(db *gorm.DB, logger *logrus.Logger) *RecordRepo {
	return &RecordRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sql/record"),
	}
}

func (r *RecordRepo) Create(ctx context.Context, rec *models.Record) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		convErr := ConvertErrorType(err)
		if !errors.Is(convErr, repositories.ErrDuplicateKey) {
			r.logger.WithError(err).Errorf("failed to create record %+v", *rec)
		}
		return convErr
	}
	return nil
}

func (r *RecordRepo) GetBySlug(ctx context.Context, slug string) (*models.Record, error) {
	var rec models.Record
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		r.logger.WithError(err).Errorf("failed to get record by slug %s", slug)
		return nil, repositories.ErrUnknown
	}
	return &rec, nil
}

func (r *RecordRepo) GetBySequenceID(ctx context.Context, sequenceID uint64) (*models.Record, error) {
	var rec models.Record
	if err := r.db.WithContext(ctx).Where("sequence_id = ?", sequenceID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		r.logger.WithError(err).Errorf("failed to get record by sequence id %d", sequenceID)
		return nil, repositories.ErrUnknown
	}
	return &rec, nil
}

func (r *RecordRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Record{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		r.logger.WithError(err).Errorf("failed to check slug %s", slug)
		return false, repositories.ErrUnknown
	}
	return count > 0, nil
}

func (r *RecordRepo) UpdateURL(ctx context.Context, sequenceID uint64, rawURL string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Record{}).
		Where("sequence_id = ?", sequenceID).
		Update("url", rawURL)
	if res.Error != nil {
		r.logger.WithError(res.Error).Errorf("failed to update url for sequence id %d", sequenceID)
		return repositories.ErrUnknown
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *RecordRepo) Delete(ctx context.Context, slug string) error {
	res := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Record{})
	if res.Error != nil {
		r.logger.WithError(res.Error).Errorf("failed to delete record %s", slug)
		return repositories.ErrUnknown
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *RecordRepo) MaxSequenceID(ctx context.Context) (uint64, error) {
	var maxID *uint64
	err := r.db.WithContext(ctx).
		Model(&models.Record{}).
		Select("MAX(sequence_id)").
		Scan(&maxID).Error
	if err != nil {
		r.logger.WithError(err).Error("failed to get max sequence id")
		return 0, repositories.ErrUnknown
	}
	if maxID == nil {
		return 0, nil
	}
	return *maxID, nil
}
