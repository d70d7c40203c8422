package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/slugreg/internal/db"
	"github.com/fsdevblog/slugreg/internal/ledger"
	"github.com/fsdevblog/slugreg/internal/repositories/memstore"
	"github.com/fsdevblog/slugreg/internal/repositories/psql"
	"github.com/fsdevblog/slugreg/internal/repositories/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ServiceType string

const (
	ServiceTypePostgres ServiceType = "postgres"
	ServiceTypeSQLite   ServiceType = "sqlite"
	ServiceTypeInMemory ServiceType = "inMemory"
)

// Params общие настройки сервисного слоя.
type Params struct {
	OperatorAddress string
	FeeShareBips    uint64
}

type Services struct {
	Registry *RegistryService
	Fees     *FeeService
	Tokens   ledger.Ledger
}

func Factory(ctx context.Context, conn any, sType ServiceType, params Params, logger *logrus.Logger) (*Services, error) {
	switch sType {
	case ServiceTypePostgres:
		pool, ok := conn.(*pgxpool.Pool)
		if !ok {
			return nil, errors.New("invalid connection type. expected *pgxpool.Pool")
		}
		return buildServices(
			ctx,
			psql.NewRecordRepo(pool, logger),
			psql.NewBalanceRepo(pool, logger),
			ledger.NewPSQLLedger(pool, logger),
			params, logger,
		)
	case ServiceTypeSQLite:
		gormDB, ok := conn.(*gorm.DB)
		if !ok {
			return nil, errors.New("invalid connection type. expected *gorm.DB")
		}
		return buildServices(
			ctx,
			sql.NewRecordRepo(gormDB, logger),
			sql.NewBalanceRepo(gormDB, logger),
			ledger.NewSQLLedger(gormDB, logger),
			params, logger,
		)
	case ServiceTypeInMemory:
		store, ok := conn.(*db.MemoryStorage)
		if !ok {
			return nil, errors.New("invalid connection type. expected *db.MemoryStorage")
		}
		return buildServices(
			ctx,
			memstore.NewRecordRepo(store),
			memstore.NewBalanceRepo(store),
			ledger.NewMemLedger(store.Tokens),
			params, logger,
		)
	default:
		return nil, fmt.Errorf("unknown service type: %s", sType)
	}
}

func buildServices(
	ctx context.Context,
	records RecordRepository,
	balances BalanceRepository,
	tokens ledger.Ledger,
	params Params,
	logger *logrus.Logger,
) (*Services, error) {
	fees, feesErr := NewFeeService(balances, params.OperatorAddress, params.FeeShareBips, logger)
	if feesErr != nil {
		return nil, fmt.Errorf("init fee service: %w", feesErr)
	}
	registry, regErr := NewRegistryService(ctx, records, tokens, fees, logger)
	if regErr != nil {
		return nil, fmt.Errorf("init registry service: %w", regErr)
	}
	return &Services{
		Registry: registry,
		Fees:     fees,
		Tokens:   tokens,
	}, nil
}
