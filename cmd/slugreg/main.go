package main

import (
	"context"
	"errors"

	"github.com/fsdevblog/slugreg/internal/app"
	"github.com/fsdevblog/slugreg/internal/bmeta"
	"github.com/fsdevblog/slugreg/internal/config"
)

// Метаданные сборки, задаются через ldflags.
//
//nolint:gochecknoglobals
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	bmeta.Print(buildVersion, buildDate, buildCommit)

	appConf := config.MustLoadConfig()

	a := app.Must(app.New(*appConf))

	a.Logger.WithField("serverAddress", appConf.ServerAddress).Info("Starting server")
	if err := a.Run(); err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
}
