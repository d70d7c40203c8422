package ledger

import (
	"context"

	"github.com/fsdevblog/slugreg/internal/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SQLLedger реализация реестра владения поверх gorm.
type SQLLedger struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewSQLLedger(db *gorm.DB, logger *logrus.Logger) *SQLLedger {
	return &SQLLedger{
		db:     db,
		logger: logger.WithField("module", "ledger/sql"),
	}
}

func (l *SQLLedger) Issue(ctx context.Context, owner string, id uint64) error {
	if owner == "" {
		return ErrNullAddress
	}
	token := models.Token{SequenceID: id, Owner: owner}
	if err := l.db.WithContext(ctx).Create(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrTokenExists
		}
		l.logger.WithError(err).Errorf("failed to issue token %d", id)
		return errors.Wrapf(err, "issue token %d", id)
	}
	return nil
}

func (l *SQLLedger) OwnerOf(ctx context.Context, id uint64) (string, error) {
	var token models.Token
	if err := l.db.WithContext(ctx).Where("sequence_id = ?", id).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTokenNotFound
		}
		l.logger.WithError(err).Errorf("failed to get owner of token %d", id)
		return "", errors.Wrapf(err, "owner of token %d", id)
	}
	return token.Owner, nil
}

func (l *SQLLedger) Transfer(ctx context.Context, from, to string, id uint64) error {
	if to == "" {
		return ErrNullAddress
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token models.Token
		if err := tx.Where("sequence_id = ?", id).First(&token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTokenNotFound
			}
			return errors.Wrapf(err, "transfer token %d", id)
		}
		if token.Owner != from {
			return ErrNotOwner
		}
		return tx.Model(&token).Update("owner", to).Error
	})
}

func (l *SQLLedger) Revoke(ctx context.Context, id uint64) error {
	res := l.db.WithContext(ctx).Where("sequence_id = ?", id).Delete(&models.Token{})
	if res.Error != nil {
		l.logger.WithError(res.Error).Errorf("failed to revoke token %d", id)
		return errors.Wrapf(res.Error, "revoke token %d", id)
	}
	if res.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}
