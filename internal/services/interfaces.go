package services

import (
	"context"

	"github.com/fsdevblog/slugreg/internal/models"
)

// RecordRepository описывает репозиторий записей реестра.
type RecordRepository interface {
	// Create создает запись. Слаг обязан быть уникальным,
	// при дубликате возвращается repositories.ErrDuplicateKey.
	Create(ctx context.Context, rec *models.Record) error
	// GetBySlug находит запись по слагу.
	GetBySlug(ctx context.Context, slug string) (*models.Record, error)
	// GetBySequenceID находит запись по порядковому идентификатору.
	GetBySequenceID(ctx context.Context, sequenceID uint64) (*models.Record, error)
	// SlugExists проверяет занят ли слаг.
	SlugExists(ctx context.Context, slug string) (bool, error)
	// UpdateURL перезаписывает URL записи.
	UpdateURL(ctx context.Context, sequenceID uint64, rawURL string) error
	// Delete удаляет запись по слагу. Используется для отката
	// частично зафиксированного минта.
	Delete(ctx context.Context, slug string) error
	// MaxSequenceID возвращает максимальный выданный sequenceID (0 если записей нет).
	MaxSequenceID(ctx context.Context) (uint64, error)
}

// BalanceRepository описывает репозиторий балансов адресов.
type BalanceRepository interface {
	// Credit увеличивает баланс адреса на amount.
	Credit(ctx context.Context, address string, amount uint64) error
	// Withdraw обнуляет баланс адреса и возвращает списанную сумму (0 если баланса нет).
	Withdraw(ctx context.Context, address string) (uint64, error)
	// Get возвращает текущий баланс адреса.
	Get(ctx context.Context, address string) (uint64, error)
}
