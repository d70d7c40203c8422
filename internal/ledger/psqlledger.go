package ledger

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// PSQLLedger реализация реестра владения поверх pgx.
type PSQLLedger struct {
	pool   *pgxpool.Pool
	logger *logrus.Entry
}

func NewPSQLLedger(pool *pgxpool.Pool, logger *logrus.Logger) *PSQLLedger {
	return &PSQLLedger{
		pool:   pool,
		logger: logger.WithField("module", "ledger/psql"),
	}
}

func (l *PSQLLedger) Issue(ctx context.Context, owner string, id uint64) error {
	if owner == "" {
		return ErrNullAddress
	}
	_, err := l.pool.Exec(ctx, `INSERT INTO tokens (sequence_id, owner) VALUES ($1, $2)`, id, owner)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrTokenExists
		}
		l.logger.WithError(err).Errorf("failed to issue token %d", id)
		return errors.Wrapf(err, "issue token %d", id)
	}
	return nil
}

func (l *PSQLLedger) OwnerOf(ctx context.Context, id uint64) (string, error) {
	var owner string
	err := l.pool.QueryRow(ctx, `SELECT owner FROM tokens WHERE sequence_id = $1`, id).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrTokenNotFound
		}
		l.logger.WithError(err).Errorf("failed to get owner of token %d", id)
		return "", errors.Wrapf(err, "owner of token %d", id)
	}
	return owner, nil
}

func (l *PSQLLedger) Transfer(ctx context.Context, from, to string, id uint64) error {
	if to == "" {
		return ErrNullAddress
	}
	tag, err := l.pool.Exec(ctx,
		`UPDATE tokens SET owner = $1 WHERE sequence_id = $2 AND owner = $3`,
		to, id, from,
	)
	if err != nil {
		l.logger.WithError(err).Errorf("failed to transfer token %d", id)
		return errors.Wrapf(err, "transfer token %d", id)
	}
	if tag.RowsAffected() == 0 {
		// либо токена нет, либо from не владелец
		if _, ownErr := l.OwnerOf(ctx, id); ownErr != nil {
			return ownErr
		}
		return ErrNotOwner
	}
	return nil
}

func (l *PSQLLedger) Revoke(ctx context.Context, id uint64) error {
	tag, err := l.pool.Exec(ctx, `DELETE FROM tokens WHERE sequence_id = $1`, id)
	if err != nil {
		l.logger.WithError(err).Errorf("failed to revoke token %d", id)
		return errors.Wrapf(err, "revoke token %d", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}
