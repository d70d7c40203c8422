package controllers

import (
	"context"

	"github.com/fsdevblog/slugreg/internal/services"
)

// SlugRegistry описывает операции реестра слагов нужные контроллерам.
type SlugRegistry interface {
	Mint(ctx context.Context, params services.MintParams) (*services.MintResult, error)
	EditURL(ctx context.Context, sender string, sequenceID uint64, rawURL string) error
	URLOf(ctx context.Context, slug string) (string, error)
	IDOf(ctx context.Context, slug string) (uint64, error)
	MetadataOf(ctx context.Context, sequenceID uint64) (string, error)
	Cost(length int) uint64
	Pause()
	Unpause()
}

// FeeVault описывает операции с балансами и комиссиями.
type FeeVault interface {
	Withdraw(ctx context.Context, address string) (uint64, error)
	BalanceOf(ctx context.Context, address string) (uint64, error)
	Donate(ctx context.Context, amount uint64) error
	SetFeeShareBips(value uint64) error
	FeeShareBips() uint64
	ReceiveForeign(asset string, amount uint64)
	RecoverForeign(asset string) (uint64, error)
}

// TokenLedger передача владельческих токенов, делегируется внешнему реестру.
type TokenLedger interface {
	Transfer(ctx context.Context, from, to string, id uint64) error
}
