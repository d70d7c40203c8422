package psql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type BalanceRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Entry
}

func NewBalanceRepo(pool *pgxpool.Pool, logger *logrus.Logger) *BalanceRepo {
	return &BalanceRepo{
		pool:   pool,
		logger: logger.WithField("module", "repository/psql/balance"),
	}
}

func (b *BalanceRepo) Credit(ctx context.Context, address string, amount uint64) error {
	query := `INSERT INTO balances (address, amount) VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET amount = balances.amount + $2, updated_at = now()`
	if _, err := b.pool.Exec(ctx, query, address, amount); err != nil {
		return fmt.Errorf("failed to credit address %s: %w", address, convertErrorType(err))
	}
	return nil
}

// Withdraw обнуляет баланс адреса и возвращает списанную сумму одним запросом.
func (b *BalanceRepo) Withdraw(ctx context.Context, address string) (uint64, error) {
	query := `UPDATE balances SET amount = 0, updated_at = now()
		WHERE address = $1 AND amount > 0 RETURNING (SELECT amount FROM balances WHERE address = $1)`
	var amount uint64
	err := b.pool.QueryRow(ctx, query, address).Scan(&amount)
	if err != nil {
		converted := convertErrorType(err)
		if isNotFound(converted) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to withdraw address %s: %w", address, converted)
	}
	return amount, nil
}

func (b *BalanceRepo) Get(ctx context.Context, address string) (uint64, error) {
	var amount uint64
	err := b.pool.QueryRow(ctx, `SELECT amount FROM balances WHERE address = $1`, address).Scan(&amount)
	if err != nil {
		converted := convertErrorType(err)
		if isNotFound(converted) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance of address %s: %w", address, converted)
	}
	return amount, nil
}
