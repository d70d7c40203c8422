package sql

import (
	"context"

	"github.com/fsdevblog/slugreg/internal/models"
	"github.com/fsdevblog/slugreg/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type BalanceRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewBalanceRepo(db *gorm.DB, logger *logrus.Logger) *BalanceRepo {
	return &BalanceRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sql/balance"),
	}
}

func (b *BalanceRepo) Credit(ctx context.Context, address string, amount uint64) error {
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bal models.Balance
		findErr := tx.Where("address = ?", address).First(&bal).Error
		if findErr != nil {
			if !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return findErr
			}
			bal = models.Balance{Address: address}
		}
		bal.Amount += amount
		return tx.Save(&bal).Error
	})
	if err != nil {
		b.logger.WithError(err).Errorf("failed to credit address %s", address)
		return repositories.ErrUnknown
	}
	return nil
}

// Withdraw обнуляет баланс адреса внутри транзакции и возвращает списанную сумму.
func (b *BalanceRepo) Withdraw(ctx context.Context, address string) (uint64, error) {
	var amount uint64
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bal models.Balance
		findErr := tx.Where("address = ?", address).First(&bal).Error
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return nil
			}
			return findErr
		}
		amount = bal.Amount
		bal.Amount = 0
		return tx.Save(&bal).Error
	})
	if err != nil {
		b.logger.WithError(err).Errorf("failed to withdraw address %s", address)
		return 0, repositories.ErrUnknown
	}
	return amount, nil
}

func (b *BalanceRepo) Get(ctx context.Context, address string) (uint64, error) {
	var bal models.Balance
	if err := b.db.WithContext(ctx).Where("address = ?", address).First(&bal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		b.logger.WithError(err).Errorf("failed to get balance of address %s", address)
		return 0, repositories.ErrUnknown
	}
	return bal.Amount, nil
}
