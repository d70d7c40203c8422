package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/fsdevblog/slugreg/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceRepo_CreditAndGet(t *testing.T) {
	repo := NewBalanceRepo(db.NewMemStorage())
	ctx := context.Background()

	amount, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, amount)

	require.NoError(t, repo.Credit(ctx, "alice", 100))
	require.NoError(t, repo.Credit(ctx, "alice", 50))

	amount, err = repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(150), amount)
}

func TestBalanceRepo_Withdraw(t *testing.T) {
	repo := NewBalanceRepo(db.NewMemStorage())
	ctx := context.Background()

	require.NoError(t, repo.Credit(ctx, "alice", 100))

	amount, err := repo.Withdraw(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), amount)

	// Повторный вывод видит уже нулевой баланс.
	amount, err = repo.Withdraw(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, amount)

	// Вывод с неизвестного адреса не ошибка, просто ноль.
	amount, err = repo.Withdraw(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, amount)
}

func TestBalanceRepo_ConcurrentCredit(t *testing.T) {
	repo := NewBalanceRepo(db.NewMemStorage())
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			_ = repo.Credit(ctx, "alice", 1)
		}()
	}
	wg.Wait()

	amount, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(workers), amount)
}
