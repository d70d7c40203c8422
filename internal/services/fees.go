package services

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MaxFeeShareBips 100% в базисных пунктах.
const MaxFeeShareBips uint64 = 10_000

// Settlement рассчитанный, но еще не примененный расклад платежа за минт.
// ReferrerCredit + OperatorCredit всегда равны стоимости, Refund уходит
// плательщику сразу и на балансах не оседает.
type Settlement struct {
	Cost           uint64
	Refund         uint64
	Referrer       string
	ReferrerCredit uint64
	Operator       string
	OperatorCredit uint64
}

// FeeService учитывает накопленные к выводу балансы и делит комиссии
// кастомных слагов между реферером и оператором.
type FeeService struct {
	balances BalanceRepository
	operator string
	logger   *logrus.Entry

	mu            sync.RWMutex
	feeShareBips  uint64
	foreignAssets map[string]uint64
}

func NewFeeService(balances BalanceRepository, operator string, feeShareBips uint64, logger *logrus.Logger) (*FeeService, error) {
	if feeShareBips > MaxFeeShareBips {
		return nil, ErrInvalidBips
	}
	return &FeeService{
		balances:      balances,
		operator:      operator,
		feeShareBips:  feeShareBips,
		foreignAssets: make(map[string]uint64),
		logger:        logger.WithField("module", "service/fees"),
	}, nil
}

// Quote проверяет достаточность платежа и считает расклад без побочных
// эффектов. Пустой адрес реферера замещается оператором: комиссия целиком
// уходит ему. Доля реферера усекается целочисленно, остаток достается
// оператору, поэтому сумма долей всегда равна стоимости.
func (f *FeeService) Quote(amountPaid, cost uint64, referrer string) (*Settlement, error) {
	if amountPaid < cost {
		return nil, errors.Wrapf(ErrInsufficientPayment, "paid %d, cost %d", amountPaid, cost)
	}

	recipient := referrer
	if recipient == "" {
		recipient = f.operator
	}

	referrerCredit := cost * f.FeeShareBips() / MaxFeeShareBips
	return &Settlement{
		Cost:           cost,
		Refund:         amountPaid - cost,
		Referrer:       recipient,
		ReferrerCredit: referrerCredit,
		Operator:       f.operator,
		OperatorCredit: cost - referrerCredit,
	}, nil
}

// Apply начисляет рассчитанные доли на балансы.
func (f *FeeService) Apply(ctx context.Context, s *Settlement) error {
	if s.ReferrerCredit > 0 {
		if err := f.balances.Credit(ctx, s.Referrer, s.ReferrerCredit); err != nil {
			return errors.Wrap(ErrUnknown, err.Error())
		}
	}
	if s.OperatorCredit > 0 {
		if err := f.balances.Credit(ctx, s.Operator, s.OperatorCredit); err != nil {
			return errors.Wrap(ErrUnknown, err.Error())
		}
	}
	return nil
}

// Withdraw обнуляет баланс адреса и возвращает сумму к выдаче.
// Обнуление происходит до выдачи суммы наружу.
func (f *FeeService) Withdraw(ctx context.Context, address string) (uint64, error) {
	amount, err := f.balances.Withdraw(ctx, address)
	if err != nil {
		return 0, errors.Wrap(ErrUnknown, err.Error())
	}
	if amount == 0 {
		return 0, ErrZeroBalance
	}
	f.logger.WithFields(logrus.Fields{
		"address": address,
		"amount":  amount,
	}).Info("withdrawal")
	return amount, nil
}

// BalanceOf возвращает накопленный баланс адреса.
func (f *FeeService) BalanceOf(ctx context.Context, address string) (uint64, error) {
	amount, err := f.balances.Get(ctx, address)
	if err != nil {
		return 0, errors.Wrap(ErrUnknown, err.Error())
	}
	return amount, nil
}

// Donate зачисляет оператору платеж пришедший без связанного вызова.
func (f *FeeService) Donate(ctx context.Context, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := f.balances.Credit(ctx, f.operator, amount); err != nil {
		return errors.Wrap(ErrUnknown, err.Error())
	}
	return nil
}

// SetFeeShareBips задает долю реферера. Применяется ко всем последующим
// минтам сразу.
func (f *FeeService) SetFeeShareBips(value uint64) error {
	if value > MaxFeeShareBips {
		return ErrInvalidBips
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feeShareBips = value
	return nil
}

func (f *FeeService) FeeShareBips() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.feeShareBips
}

// ReceiveForeign учитывает случайно присланный чужой актив.
func (f *FeeService) ReceiveForeign(asset string, amount uint64) {
	if asset == "" || amount == 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.foreignAssets[asset] += amount
}

// RecoverForeign выметает накопленный чужой актив оператору и возвращает сумму.
func (f *FeeService) RecoverForeign(asset string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	amount, ok := f.foreignAssets[asset]
	if !ok || amount == 0 {
		return 0, ErrZeroBalance
	}
	delete(f.foreignAssets, asset)

	f.logger.WithFields(logrus.Fields{
		"asset":  asset,
		"amount": amount,
		"to":     f.operator,
	}).Info("foreign asset recovered")
	return amount, nil
}
