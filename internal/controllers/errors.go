package controllers

import (
	"errors"
	"net/http"

	"github.com/fsdevblog/slugreg/internal/ledger"
	"github.com/fsdevblog/slugreg/internal/services"
	"github.com/gin-gonic/gin"
)

// Ошибки.
var (
	ErrRecordNotFound = errors.New("record not found") // Запись не найдена
	ErrInternal       = errors.New("internal error")   // Прочая ошибка
)

// statusFromError переводит сервисные ошибки в HTTP статусы.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrRecordNotFound),
		errors.Is(err, ledger.ErrTokenNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSlugTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrInsufficientPayment):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrNotOwner),
		errors.Is(err, ledger.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, services.ErrPaused):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrEmptyURL),
		errors.Is(err, services.ErrSelfReferral),
		errors.Is(err, services.ErrZeroBalance),
		errors.Is(err, services.ErrInvalidBips),
		errors.Is(err, ledger.ErrNullAddress):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx *gin.Context, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		_ = ctx.Error(err)
		ctx.JSON(status, gin.H{"error": ErrInternal.Error()})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
