package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/slugreg/internal/config"
	"github.com/fsdevblog/slugreg/internal/controllers"
	"github.com/fsdevblog/slugreg/internal/db"
	"github.com/fsdevblog/slugreg/internal/services"
	"github.com/fsdevblog/slugreg/internal/sslcert"
)

type App struct {
	config     config.Config
	dbServices *services.Services
	Logger     *logrus.Logger
}

func New(config config.Config) (*App, error) {
	ctx := context.Background()
	dbServices, servicesErr := initServices(ctx, config)

	if servicesErr != nil {
		return nil, fmt.Errorf("init services: %w", servicesErr)
	}

	return &App{
		config:     config,
		dbServices: dbServices,
		Logger:     config.Logger,
	}, nil
}

// Must вызывает панику если произошла ошибка.
func Must(a *App, err error) *App {
	if err != nil {
		panic(err)
	}
	return a
}

// Run запускает web сервер.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)

	server := controllers.SetupRouter(a.dbServices, &a.config, a.Logger)

	go func() {
		if a.config.EnableHTTPS {
			if certErr := ensureCertFiles(a.config.TLSCertPath, a.config.TLSKeyPath); certErr != nil {
				errChan <- certErr
				return
			}
			if err := server.RunTLS(
				a.config.ServerAddress, a.config.TLSCertPath, a.config.TLSKeyPath,
			); err != nil {
				errChan <- err
			}
			return
		}
		if err := server.Run(a.config.ServerAddress); err != nil {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutdown command received")
	case serverErr = <-errChan:
		a.Logger.WithError(serverErr).Error("router error")
	}

	return serverErr
}

// ensureCertFiles проверяет пару PEM файлов и генерирует самоподписанную
// если файлов нет либо сертификат невалиден.
func ensureCertFiles(certPath, keyPath string) error {
	gen, genErr := sslcert.New()
	if genErr != nil {
		return fmt.Errorf("init cert generator: %w", genErr)
	}

	if validCertFilesExist(gen, certPath, keyPath) {
		return nil
	}

	certPEM, keyPEM, generateErr := gen.Generate()
	if generateErr != nil {
		return fmt.Errorf("generate certificate: %w", generateErr)
	}
	if writeErr := os.WriteFile(certPath, certPEM, 0o600); writeErr != nil {
		return fmt.Errorf("write certificate: %w", writeErr)
	}
	if writeErr := os.WriteFile(keyPath, keyPEM, 0o600); writeErr != nil {
		return fmt.Errorf("write private key: %w", writeErr)
	}
	return nil
}

func validCertFilesExist(gen *sslcert.Generator, certPath, keyPath string) bool {
	certFile, certErr := os.Open(certPath)
	if certErr != nil {
		return false
	}
	defer certFile.Close()

	keyFile, keyErr := os.Open(keyPath)
	if keyErr != nil {
		return false
	}
	defer keyFile.Close()

	return gen.CheckPemFiles(certFile, keyFile) == nil
}

// initServices создает подключение к базе данных и возвращает сервисный слой приложения.
func initServices(ctx context.Context, appConf config.Config) (*services.Services, error) {
	dbConn, connErr := db.NewConnectionFactory(ctx, db.FactoryConfig{
		StorageType:  whatIsDBStorageType(&appConf),
		PostgresDSN:  &appConf.DatabaseDSN,
		SqliteDBPath: &appConf.SQLitePath,
	})
	if connErr != nil {
		return nil, connErr //nolint:wrapcheck
	}

	dbServices, dbServErr := services.Factory(
		ctx,
		dbConn,
		whatIsServiceType(&appConf),
		services.Params{
			OperatorAddress: appConf.OperatorAddress,
			FeeShareBips:    appConf.FeeShareBips,
		},
		appConf.Logger,
	)
	if dbServErr != nil {
		return nil, dbServErr //nolint:wrapcheck
	}
	return dbServices, nil
}

func whatIsDBStorageType(appConf *config.Config) db.StorageType {
	switch appConf.DBType {
	case config.DBTypePostgres:
		return db.StorageTypePostgres
	case config.DBTypeSQLite:
		return db.StorageTypeSQLite
	default:
		return db.StorageTypeInMemory
	}
}

func whatIsServiceType(appConf *config.Config) services.ServiceType {
	switch appConf.DBType {
	case config.DBTypePostgres:
		return services.ServiceTypePostgres
	case config.DBTypeSQLite:
		return services.ServiceTypeSQLite
	default:
		return services.ServiceTypeInMemory
	}
}
