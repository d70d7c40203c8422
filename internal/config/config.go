package config

import (
	"flag"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

type DBType string

const (
	DBTypePostgres DBType = "postgres"
	DBTypeSQLite   DBType = "sqlite"
	DBTypeInMemory DBType = "inMemory"
)

type Config struct {
	// Порт на котором запустится сервер
	ServerAddress string `env:"SERVER_ADDRESS"`
	// Базовый адрес результирующей короткой ссылки
	BaseURL *url.URL `env:"BASE_URL"`
	// Тип хранилища
	DBType DBType `env:"DB" envDefault:"inMemory"` // через флаги не настраиваю, незачем
	// DSN PostgreSQL (при DB=postgres)
	DatabaseDSN string `env:"DATABASE_DSN"`
	// Путь к файлу SQLite (при DB=sqlite)
	SQLitePath string `env:"SQLITE_PATH" envDefault:"slugreg.db"`
	// Адрес оператора реестра, на него капают комиссии без реферера
	OperatorAddress string `env:"OPERATOR_ADDRESS" envDefault:"operator"`
	// Ключ админских запросов
	OperatorKey string `env:"OPERATOR_KEY"`
	// Стартовая доля реферера в базисных пунктах
	FeeShareBips uint64 `env:"FEE_SHARE_BIPS" envDefault:"5000"`
	// Ключ подписи JWT кошельков
	JWTSecret string `env:"JWT_SECRET" envDefault:"insecure-dev-secret"`
	// Запуск сервера по HTTPS; без готовой пары PEM файлов
	// сертификат генерируется самоподписанный
	EnableHTTPS bool `env:"ENABLE_HTTPS"`
	// Пути к PEM файлам сертификата и ключа (при ENABLE_HTTPS)
	TLSCertPath string `env:"TLS_CERT_PATH" envDefault:"server.crt"`
	TLSKeyPath  string `env:"TLS_KEY_PATH" envDefault:"server.key"`
	Logger      *logrus.Logger
}

func LoadConfig() (*Config, error) {
	var flagsConfig, envConfig Config
	logger := initLogger()

	if err := env.Parse(&envConfig); err != nil {
		return nil, errors.Wrapf(err, "parse ENV config error")
	}

	loadsFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	conf.Logger = logger
	return conf, nil
}

// MustLoadConfig вызывает панику если конфигурацию собрать не удалось.
func MustLoadConfig() *Config {
	conf, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return conf
}

// loadsFlags парсит флаги командной строки.
func loadsFlags(flagsConfig *Config) {
	flag.StringVar(&flagsConfig.ServerAddress, "a", "localhost:8080", "Адрес сервера")
	flag.StringVar(&flagsConfig.DatabaseDSN, "d", "", "DSN подключения к PostgreSQL")
	flag.StringVar(&flagsConfig.SQLitePath, "f", "", "Путь к файлу SQLite")
	flag.BoolVar(&flagsConfig.EnableHTTPS, "s", false, "Запустить сервер по HTTPS")

	bDesc := "Базовый адрес результирующей короткой ссылки (по умолчанию Scheme://Host запущенного сервера)"
	flag.Func("b", bDesc, func(rawURL string) error {
		parsedURL, err := url.ParseRequestURI(rawURL)
		if err != nil {
			return errors.Wrap(err, "failed to parse base url")
		}

		// создаем новый инстанс, отсекая тем самым Path и Query если они заданы в базовом урле.
		flagsConfig.BaseURL = &url.URL{
			Scheme: parsedURL.Scheme,
			Host:   parsedURL.Host,
		}
		return nil
	})

	flag.Parse()
}

// mergeConfig сливает структуры для env и флагов.
func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		ServerAddress:   defaultIfBlank[string](envConfig.ServerAddress, flagsConfig.ServerAddress),
		BaseURL:         defaultIfBlank[*url.URL](envConfig.BaseURL, flagsConfig.BaseURL),
		DBType:          defaultIfBlank[DBType](envConfig.DBType, flagsConfig.DBType),
		DatabaseDSN:     defaultIfBlank[string](envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		SQLitePath:      defaultIfBlank[string](envConfig.SQLitePath, flagsConfig.SQLitePath),
		OperatorAddress: envConfig.OperatorAddress,
		OperatorKey:     envConfig.OperatorKey,
		FeeShareBips:    envConfig.FeeShareBips,
		JWTSecret:       envConfig.JWTSecret,
		EnableHTTPS:     envConfig.EnableHTTPS || flagsConfig.EnableHTTPS,
		TLSCertPath:     envConfig.TLSCertPath,
		TLSKeyPath:      envConfig.TLSKeyPath,
	}
}

func defaultIfBlank[T any](value T, defaultValue T) T {
	if v, ok := any(value).(string); ok && v == "" {
		return defaultValue
	}
	if v, ok := any(value).(DBType); ok && v == "" {
		return defaultValue
	}
	if v, ok := any(value).(*url.URL); ok && v == nil {
		return defaultValue
	}
	return value
}
