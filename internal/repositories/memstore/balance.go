package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fsdevblog/slugreg/internal/db"
	"github.com/fsdevblog/slugreg/internal/db/memory"
	"github.com/fsdevblog/slugreg/internal/models"
)

// BalanceRepo репозиторий балансов адресов в памяти.
// Мьютекс сериализует read-modify-write циклы начисления и вывода.
type BalanceRepo struct {
	s  *db.MemoryStorage
	mu sync.Mutex
}

func NewBalanceRepo(store *db.MemoryStorage) *BalanceRepo {
	return &BalanceRepo{
		s: store,
	}
}

// Credit увеличивает баланс адреса на amount.
func (b *BalanceRepo) Credit(ctx context.Context, address string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	bal, err := memory.Get[models.Balance](ctx, address, b.s.Balances)
	if err != nil {
		if !errors.Is(err, memory.ErrNotFound) {
			return fmt.Errorf("failed to credit address %s: %w", address, convertErrorType(err))
		}
		bal = &models.Balance{Address: address}
	}
	bal.Amount += amount

	if setErr := memory.Set[models.Balance](ctx, address, bal, b.s.Balances, memory.WithOverwrite()); setErr != nil {
		return fmt.Errorf("failed to credit address %s: %w", address, convertErrorType(setErr))
	}
	return nil
}

// Withdraw обнуляет баланс адреса и возвращает списанную сумму.
// Сначала обнуление, потом выдача суммы наружу, чтобы повторный вывод
// не увидел устаревший ненулевой баланс.
func (b *BalanceRepo) Withdraw(ctx context.Context, address string) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bal, err := memory.Get[models.Balance](ctx, address, b.s.Balances)
	if err != nil {
		if errors.Is(err, memory.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to withdraw address %s: %w", address, convertErrorType(err))
	}

	amount := bal.Amount
	bal.Amount = 0
	if setErr := memory.Set[models.Balance](ctx, address, bal, b.s.Balances, memory.WithOverwrite()); setErr != nil {
		return 0, fmt.Errorf("failed to withdraw address %s: %w", address, convertErrorType(setErr))
	}
	return amount, nil
}

// Get возвращает текущий баланс адреса (0 если записи нет).
func (b *BalanceRepo) Get(ctx context.Context, address string) (uint64, error) {
	bal, err := memory.Get[models.Balance](ctx, address, b.s.Balances)
	if err != nil {
		if errors.Is(err, memory.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance of address %s: %w", address, convertErrorType(err))
	}
	return bal.Amount, nil
}
