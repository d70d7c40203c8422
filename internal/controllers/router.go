package controllers

import (
	"github.com/fsdevblog/slugreg/internal/config"
	"github.com/fsdevblog/slugreg/internal/controllers/middlewares"
	"github.com/fsdevblog/slugreg/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func SetupRouter(s *services.Services, appConf *config.Config, l *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware(l))
	r.Use(middlewares.GzipMiddleware())
	r.Use(middlewares.WalletCookieMiddleware([]byte(appConf.JWTSecret)))

	registryController := NewRegistryController(s.Registry, appConf.BaseURL)
	feesController := NewFeesController(s.Fees)
	tokensController := NewTokensController(s.Tokens)
	adminController := NewAdminController(s.Registry, s.Fees)

	r.GET("/:slug", registryController.Redirect)

	api := r.Group("/api")
	api.POST("/mint", registryController.Mint)
	api.GET("/cost/:length", registryController.Cost)
	api.GET("/slugs/:slug", registryController.URLOf)
	api.GET("/slugs/:slug/id", registryController.IDOf)
	api.GET("/records/:sequenceID/metadata", registryController.Metadata)
	api.PATCH("/records/:sequenceID/url", registryController.EditURL)
	api.POST("/tokens/:sequenceID/transfer", tokensController.Transfer)
	api.POST("/withdraw", feesController.Withdraw)
	api.GET("/balance", feesController.Balance)
	api.POST("/payments", feesController.Payment)

	admin := api.Group("/admin", middlewares.RequireOperator(appConf.OperatorKey))
	admin.PUT("/fee-share", adminController.SetFeeShare)
	admin.GET("/fee-share", adminController.FeeShare)
	admin.POST("/pause", adminController.Pause)
	admin.POST("/unpause", adminController.Unpause)
	admin.POST("/recover/:asset", adminController.RecoverForeign)
	return r
}
