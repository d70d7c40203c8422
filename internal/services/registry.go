package services

import (
	"context"
	"sync"
	"unicode/utf8"

	"github.com/fsdevblog/slugreg/internal/ledger"
	"github.com/fsdevblog/slugreg/internal/models"
	"github.com/fsdevblog/slugreg/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MintParams параметры запроса на минт.
type MintParams struct {
	Sender   string
	URL      string
	Slug     string // пустой слаг означает бесплатную генерацию
	Referrer string
	Payment  uint64 // приложенный платеж в микроединицах
}

// MintResult итог успешного минта.
type MintResult struct {
	Slug       string
	SequenceID uint64
	IsCustom   bool
	Cost       uint64
	Refund     uint64
}

// RegistryService владеет картами slug<->URL и slug<->id и оркестрирует
// минт в одну атомарную операцию: все проверки проходят до первой записи.
// Мутации сериализуются мьютексом, так что счетчик и проверка коллизий
// не гоняются между собой.
type RegistryService struct {
	records  RecordRepository
	tokens   ledger.Ledger
	fees     *FeeService
	pricing  *PricingEngine
	slugger  *SlugAllocator
	renderer *Renderer
	logger   *logrus.Entry

	mu      sync.Mutex
	counter uint64
	paused  bool
}

func NewRegistryService(
	ctx context.Context,
	records RecordRepository,
	tokens ledger.Ledger,
	fees *FeeService,
	logger *logrus.Logger,
) (*RegistryService, error) {
	counter, err := records.MaxSequenceID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "restore mint counter")
	}
	return &RegistryService{
		records:  records,
		tokens:   tokens,
		fees:     fees,
		pricing:  NewPricingEngine(),
		slugger:  NewSlugAllocator(),
		renderer: NewRenderer(),
		logger:   logger.WithField("module", "service/registry"),
		counter:  counter,
	}, nil
}

// Mint единственный путь создания записи. Либо проходит целиком, либо
// не оставляет следов: все предусловия проверяются до первой мутации.
func (r *RegistryService) Mint(ctx context.Context, params MintParams) (*MintResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.paused {
		return nil, ErrPaused
	}
	if params.URL == "" {
		return nil, ErrEmptyURL
	}
	if params.Sender == "" {
		return nil, errors.Wrap(ErrUnknown, "sender is null")
	}
	if params.Referrer != "" && params.Referrer == params.Sender {
		return nil, ErrSelfReferral
	}

	var (
		slug       string
		isCustom   bool
		settlement *Settlement
		donation   uint64
	)

	if params.Slug == "" {
		allocated, allocErr := r.slugger.Allocate(ctx, r.counter, r.records.SlugExists)
		if allocErr != nil {
			return nil, allocErr
		}
		slug = allocated
		// платеж при бесплатном минте засчитывается как пожертвование оператору
		donation = params.Payment
	} else {
		slug = params.Slug
		isCustom = true

		taken, existsErr := r.records.SlugExists(ctx, slug)
		if existsErr != nil {
			return nil, errors.Wrap(ErrUnknown, existsErr.Error())
		}
		if taken {
			return nil, ErrSlugTaken
		}

		cost := r.pricing.Cost(utf8.RuneCountInString(slug))
		quote, quoteErr := r.fees.Quote(params.Payment, cost, params.Referrer)
		if quoteErr != nil {
			return nil, quoteErr
		}
		settlement = quote
	}

	// все предусловия пройдены, дальше только фиксация
	sequenceID := r.counter + 1
	rec := models.Record{
		SequenceID: sequenceID,
		Slug:       slug,
		URL:        params.URL,
		IsCustom:   isCustom,
		Minter:     params.Sender,
		Referrer:   params.Referrer,
	}
	if createErr := r.records.Create(ctx, &rec); createErr != nil {
		if errors.Is(createErr, repositories.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		return nil, errors.Wrap(ErrUnknown, createErr.Error())
	}
	if issueErr := r.tokens.Issue(ctx, params.Sender, sequenceID); issueErr != nil {
		r.rollbackMint(ctx, slug, 0)
		return nil, errors.Wrap(ErrUnknown, issueErr.Error())
	}

	result := MintResult{
		Slug:       slug,
		SequenceID: sequenceID,
		IsCustom:   isCustom,
	}
	if settlement != nil {
		if applyErr := r.fees.Apply(ctx, settlement); applyErr != nil {
			r.rollbackMint(ctx, slug, sequenceID)
			return nil, applyErr
		}
		result.Cost = settlement.Cost
		result.Refund = settlement.Refund
	} else if donation > 0 {
		if donateErr := r.fees.Donate(ctx, donation); donateErr != nil {
			r.rollbackMint(ctx, slug, sequenceID)
			return nil, donateErr
		}
	}
	r.counter = sequenceID

	r.logger.WithFields(logrus.Fields{
		"sender":     params.Sender,
		"url":        params.URL,
		"slug":       slug,
		"sequenceID": sequenceID,
		"isCustom":   isCustom,
		"referrer":   params.Referrer,
	}).Info("mint")

	return &result, nil
}

// rollbackMint откатывает частично зафиксированный минт: созданная запись
// удаляется, выпущенный токен (при revokeID > 0) изымается из реестра.
// Ошибки отката только логируются, наружу уходит исходная ошибка минта.
// Счетчик к этому моменту еще не сдвинут, sequenceID будет выдан заново.
func (r *RegistryService) rollbackMint(ctx context.Context, slug string, revokeID uint64) {
	if revokeID > 0 {
		if revokeErr := r.tokens.Revoke(ctx, revokeID); revokeErr != nil {
			r.logger.WithError(revokeErr).WithField("sequenceID", revokeID).
				Error("failed to revoke token on mint rollback")
		}
	}
	if deleteErr := r.records.Delete(ctx, slug); deleteErr != nil {
		r.logger.WithError(deleteErr).WithField("slug", slug).
			Error("failed to delete record on mint rollback")
	}
}

// EditURL перезаписывает URL записи. Разрешено только текущему владельцу
// токена записи, владение проверяется через внешний реестр.
func (r *RegistryService) EditURL(ctx context.Context, sender string, sequenceID uint64, rawURL string) error {
	if rawURL == "" {
		return ErrEmptyURL
	}
	owner, err := r.tokens.OwnerOf(ctx, sequenceID)
	if err != nil {
		if errors.Is(err, ledger.ErrTokenNotFound) {
			return errors.Wrapf(ErrRecordNotFound, "sequence id %d", sequenceID)
		}
		return errors.Wrap(ErrUnknown, err.Error())
	}
	if owner != sender {
		return ErrNotOwner
	}

	if updErr := r.records.UpdateURL(ctx, sequenceID, rawURL); updErr != nil {
		if errors.Is(updErr, repositories.ErrNotFound) {
			return errors.Wrapf(ErrRecordNotFound, "sequence id %d", sequenceID)
		}
		return errors.Wrap(ErrUnknown, updErr.Error())
	}
	return nil
}

// URLOf возвращает URL слага.
func (r *RegistryService) URLOf(ctx context.Context, slug string) (string, error) {
	rec, err := r.getBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	return rec.URL, nil
}

// IDOf возвращает sequenceID слага.
func (r *RegistryService) IDOf(ctx context.Context, slug string) (uint64, error) {
	rec, err := r.getBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	return rec.SequenceID, nil
}

// MetadataOf возвращает метаданные записи в виде data URI.
func (r *RegistryService) MetadataOf(ctx context.Context, sequenceID uint64) (string, error) {
	rec, err := r.records.GetBySequenceID(ctx, sequenceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", errors.Wrapf(ErrRecordNotFound, "sequence id %d", sequenceID)
		}
		return "", errors.Wrap(ErrUnknown, err.Error())
	}
	uri, renderErr := r.renderer.MetadataURI(rec)
	if renderErr != nil {
		return "", errors.Wrap(ErrUnknown, renderErr.Error())
	}
	return uri, nil
}

// Cost возвращает стоимость кастомного слага длины length.
func (r *RegistryService) Cost(length int) uint64 {
	return r.pricing.Cost(length)
}

// Pause блокирует минт.
func (r *RegistryService) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = true
}

// Unpause снимает блокировку минта.
func (r *RegistryService) Unpause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = false
}

func (r *RegistryService) getBySlug(ctx context.Context, slug string) (*models.Record, error) {
	if slug == "" {
		return nil, ErrRecordNotFound
	}
	rec, err := r.records.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrRecordNotFound, "slug %s not found", slug)
		}
		return nil, errors.Wrap(ErrUnknown, err.Error())
	}
	return rec, nil
}
