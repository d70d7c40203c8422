package ledger

import (
	"context"
	"strconv"

	"github.com/fsdevblog/slugreg/internal/db/memory"
	"github.com/fsdevblog/slugreg/internal/models"
	"github.com/pkg/errors"
)

// MemLedger реализация реестра владения в памяти поверх memory.MStorage.
type MemLedger struct {
	s *memory.MStorage
}

func NewMemLedger(store *memory.MStorage) *MemLedger {
	return &MemLedger{s: store}
}

func (l *MemLedger) Issue(ctx context.Context, owner string, id uint64) error {
	if owner == "" {
		return ErrNullAddress
	}
	token := models.Token{SequenceID: id, Owner: owner}
	if err := memory.Set[models.Token](ctx, tokenKey(id), &token, l.s); err != nil {
		if errors.Is(err, memory.ErrDuplicateKey) {
			return ErrTokenExists
		}
		return errors.Wrapf(err, "issue token %d", id)
	}
	return nil
}

func (l *MemLedger) OwnerOf(ctx context.Context, id uint64) (string, error) {
	token, err := memory.Get[models.Token](ctx, tokenKey(id), l.s)
	if err != nil {
		if errors.Is(err, memory.ErrNotFound) {
			return "", ErrTokenNotFound
		}
		return "", errors.Wrapf(err, "owner of token %d", id)
	}
	return token.Owner, nil
}

func (l *MemLedger) Transfer(ctx context.Context, from, to string, id uint64) error {
	if to == "" {
		return ErrNullAddress
	}
	owner, err := l.OwnerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != from {
		return ErrNotOwner
	}
	token := models.Token{SequenceID: id, Owner: to}
	if setErr := memory.Set[models.Token](ctx, tokenKey(id), &token, l.s, memory.WithOverwrite()); setErr != nil {
		return errors.Wrapf(setErr, "transfer token %d", id)
	}
	return nil
}

func (l *MemLedger) Revoke(ctx context.Context, id uint64) error {
	if err := l.s.Delete(ctx, tokenKey(id)); err != nil {
		if errors.Is(err, memory.ErrNotFound) {
			return ErrTokenNotFound
		}
		return errors.Wrapf(err, "revoke token %d", id)
	}
	return nil
}

func tokenKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}
