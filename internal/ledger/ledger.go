// Package ledger описывает способность внешнего реестра владения токенами.
// Ядро зависит только от интерфейса Ledger: выпуск токена при минте и
// проверка владельца при редактировании URL. Передача токенов целиком
// делегирована реализации.
package ledger

import "context"

// Ledger реестр владения токенами записей.
type Ledger interface {
	// Issue выпускает новый токен id для владельца owner.
	// Повторный выпуск токена с тем же id запрещен.
	Issue(ctx context.Context, owner string, id uint64) error
	// OwnerOf возвращает текущего владельца токена id.
	OwnerOf(ctx context.Context, id uint64) (string, error)
	// Transfer передает токен id от владельца from к to.
	Transfer(ctx context.Context, from, to string, id uint64) error
	// Revoke изымает токен id из реестра. Нужен для отката выпуска
	// когда минт не смог зафиксироваться целиком.
	Revoke(ctx context.Context, id uint64) error
}
