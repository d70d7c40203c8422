package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TokensController передача токенов владения записями.
type TokensController struct {
	tokens TokenLedger
}

func NewTokensController(tokens TokenLedger) *TokensController {
	return &TokensController{tokens: tokens}
}

type transferRequest struct {
	To string `json:"to"`
}

// Transfer передает токен записи новому владельцу. Доступ к записи
// (редактирование URL) переходит вместе с токеном.
func (t *TokensController) Transfer(ctx *gin.Context) {
	from, ok := callerAddress(ctx)
	if !ok {
		return
	}
	sequenceID, ok := sequenceIDParam(ctx)
	if !ok {
		return
	}

	var req transferRequest
	if bindErr := ctx.ShouldBindJSON(&req); bindErr != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := t.tokens.Transfer(ctx.Request.Context(), from, req.To, sequenceID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
