package memstore

import (
	"context"
	"fmt"

	"github.com/fsdevblog/slugreg/internal/db"
	"github.com/fsdevblog/slugreg/internal/db/memory"
	"github.com/fsdevblog/slugreg/internal/models"
	"github.com/fsdevblog/slugreg/internal/repositories"
)

// RecordRepo репозиторий записей реестра в памяти.
// Ключом хранилища служит слаг, поиск по sequenceID делается сканированием.
type RecordRepo struct {
	s *db.MemoryStorage
}

func NewRecordRepo(store *db.MemoryStorage) *RecordRepo {
	return &RecordRepo{
		s: store,
	}
}

// Create создает новую запись реестра. Слаг обязан быть уникальным,
// при дубликате возвращается repositories.ErrDuplicateKey.
func (r *RecordRepo) Create(ctx context.Context, rec *models.Record) error {
	if err := memory.Set[models.Record](ctx, rec.Slug, rec, r.s.Records); err != nil {
		return fmt.Errorf("failed to create record: %w", convertErrorType(err))
	}
	return nil
}

// GetBySlug получает запись по слагу.
func (r *RecordRepo) GetBySlug(ctx context.Context, slug string) (*models.Record, error) {
	rec, err := memory.Get[models.Record](ctx, slug, r.s.Records)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to get record by slug %s: %w",
			slug, convertErrorType(err),
		)
	}
	return rec, nil
}

// GetBySequenceID получает запись по порядковому идентификатору.
func (r *RecordRepo) GetBySequenceID(ctx context.Context, sequenceID uint64) (*models.Record, error) {
	data, err := memory.FilterAll[models.Record](ctx, r.s.Records, func(val models.Record) bool {
		return val.SequenceID == sequenceID
	})
	if err != nil {
		return nil, fmt.Errorf(
			"failed to get record by sequence id %d: %w",
			sequenceID, convertErrorType(err),
		)
	}
	if len(data) == 0 {
		return nil, repositories.ErrNotFound
	}
	return &data[0], nil
}

// SlugExists проверяет занят ли слаг.
func (r *RecordRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	return r.s.Records.IsExist(slug), nil
}

// UpdateURL перезаписывает URL записи с заданным sequenceID.
func (r *RecordRepo) UpdateURL(ctx context.Context, sequenceID uint64, rawURL string) error {
	rec, err := r.GetBySequenceID(ctx, sequenceID)
	if err != nil {
		return err
	}
	rec.URL = rawURL
	if setErr := memory.Set[models.Record](ctx, rec.Slug, rec, r.s.Records, memory.WithOverwrite()); setErr != nil {
		return fmt.Errorf(
			"failed to update url for sequence id %d: %w",
			sequenceID, convertErrorType(setErr),
		)
	}
	return nil
}

// Delete удаляет запись по слагу.
func (r *RecordRepo) Delete(ctx context.Context, slug string) error {
	if err := r.s.Records.Delete(ctx, slug); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", slug, convertErrorType(err))
	}
	return nil
}

// MaxSequenceID возвращает максимальный выданный sequenceID (0 если записей нет).
func (r *RecordRepo) MaxSequenceID(ctx context.Context) (uint64, error) {
	data, err := memory.GetAll[models.Record](ctx, r.s.Records)
	if err != nil {
		return 0, fmt.Errorf("failed to get all records: %w", convertErrorType(err))
	}
	var maxID uint64
	for _, rec := range data {
		if rec.SequenceID > maxID {
			maxID = rec.SequenceID
		}
	}
	return maxID, nil
}
