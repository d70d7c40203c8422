package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminController операции доступные только оператору сервиса.
type AdminController struct {
	registry SlugRegistry
	vault    FeeVault
}

func NewAdminController(registry SlugRegistry, vault FeeVault) *AdminController {
	return &AdminController{registry: registry, vault: vault}
}

type feeShareRequest struct {
	Bips uint64 `json:"bips"`
}

// SetFeeShare задает долю реферера в базисных пунктах.
func (a *AdminController) SetFeeShare(ctx *gin.Context) {
	var req feeShareRequest
	if bindErr := ctx.ShouldBindJSON(&req); bindErr != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := a.vault.SetFeeShareBips(req.Bips); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"bips": req.Bips})
}

// FeeShare возвращает текущую долю реферера.
func (a *AdminController) FeeShare(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"bips": a.vault.FeeShareBips()})
}

// Pause останавливает регистрацию новых слагов.
func (a *AdminController) Pause(ctx *gin.Context) {
	a.registry.Pause()
	ctx.Status(http.StatusNoContent)
}

// Unpause возобновляет регистрацию.
func (a *AdminController) Unpause(ctx *gin.Context) {
	a.registry.Unpause()
	ctx.Status(http.StatusNoContent)
}

// RecoverForeign возвращает оператору ошибочно присланный сторонний актив.
func (a *AdminController) RecoverForeign(ctx *gin.Context) {
	asset := ctx.Param("asset")

	amount, err := a.vault.RecoverForeign(asset)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"asset": asset, "amount": amount})
}
