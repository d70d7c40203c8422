package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type FeesController struct {
	vault FeeVault
}

func NewFeesController(vault FeeVault) *FeesController {
	return &FeesController{vault: vault}
}

// Withdraw выводит весь накопленный баланс вызывающего.
func (f *FeesController) Withdraw(ctx *gin.Context) {
	address, ok := callerAddress(ctx)
	if !ok {
		return
	}

	amount, err := f.vault.Withdraw(ctx.Request.Context(), address)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"address": address, "amount": amount})
}

// Balance возвращает текущий баланс вызывающего.
func (f *FeesController) Balance(ctx *gin.Context) {
	address, ok := callerAddress(ctx)
	if !ok {
		return
	}

	amount, err := f.vault.BalanceOf(ctx.Request.Context(), address)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"address": address, "amount": amount})
}

type paymentRequest struct {
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
}

// Payment принимает платеж вне операции регистрации. Нативный платеж
// уходит оператору как пожертвование, платеж в стороннем активе
// учитывается отдельно до возврата оператором.
func (f *FeesController) Payment(ctx *gin.Context) {
	var req paymentRequest
	if bindErr := ctx.ShouldBindJSON(&req); bindErr != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Asset == "" {
		if err := f.vault.Donate(ctx.Request.Context(), req.Amount); err != nil {
			respondError(ctx, err)
			return
		}
		ctx.Status(http.StatusAccepted)
		return
	}

	f.vault.ReceiveForeign(req.Asset, req.Amount)
	ctx.Status(http.StatusAccepted)
}
