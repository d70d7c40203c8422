package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// initLogger собирает логгер приложения. Режим выводится из GIN_MODE:
// в релизе JSON и уровень info, иначе текстовый вывод и debug.
func initLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if os.Getenv("GIN_MODE") == "release" {
		logger.SetFormatter(new(logrus.JSONFormatter))
		logger.SetLevel(logrus.InfoLevel)
		return logger
	}

	logger.SetFormatter(new(logrus.TextFormatter))
	logger.SetLevel(logrus.DebugLevel)
	return logger
}
