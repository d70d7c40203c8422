package controllers

import (
	"net/http"
	"strconv"

	"github.com/fsdevblog/slugreg/internal/controllers/middlewares"
	"github.com/gin-gonic/gin"
)

// callerAddress достает адрес кошелька вызывающего из контекста gin.
// Адрес кладется туда WalletCookieMiddleware; его отсутствие означает
// сломанный стек миддлваре.
func callerAddress(ctx *gin.Context) (string, bool) {
	address := ctx.GetString(middlewares.WalletAddressKey)
	if address == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "wallet address is not set"})
		return "", false
	}
	return address, true
}

// sequenceIDParam парсит параметр пути :sequenceID.
func sequenceIDParam(ctx *gin.Context) (uint64, bool) {
	raw := ctx.Param("sequenceID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid sequence id"})
		return 0, false
	}
	return id, true
}
