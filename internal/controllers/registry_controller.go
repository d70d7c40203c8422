package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fsdevblog/slugreg/internal/services"
	"github.com/gin-gonic/gin"
)

type RegistryController struct {
	registry SlugRegistry
	baseURL  *url.URL
}

func NewRegistryController(registry SlugRegistry, baseURL *url.URL) *RegistryController {
	return &RegistryController{
		registry: registry,
		baseURL:  baseURL,
	}
}

type mintRequest struct {
	URL      string `json:"url"`
	Slug     string `json:"slug"`
	Referrer string `json:"referrer"`
	Payment  uint64 `json:"payment"`
}

type mintResponse struct {
	Slug       string `json:"slug"`
	SequenceID uint64 `json:"sequenceID"`
	IsCustom   bool   `json:"isCustom"`
	Cost       uint64 `json:"cost"`
	Refund     uint64 `json:"refund"`
	ShortURL   string `json:"shortURL"`
}

// Mint создает новую запись: слаг по запросу (платно) либо сгенерированный (бесплатно).
func (r *RegistryController) Mint(ctx *gin.Context) {
	sender, ok := callerAddress(ctx)
	if !ok {
		return
	}

	var req mintRequest
	if bindErr := ctx.ShouldBindJSON(&req); bindErr != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := r.registry.Mint(ctx.Request.Context(), services.MintParams{
		Sender:   sender,
		URL:      req.URL,
		Slug:     req.Slug,
		Referrer: req.Referrer,
		Payment:  req.Payment,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, mintResponse{
		Slug:       res.Slug,
		SequenceID: res.SequenceID,
		IsCustom:   res.IsCustom,
		Cost:       res.Cost,
		Refund:     res.Refund,
		ShortURL:   r.getShortURL(ctx.Request, res.Slug),
	})
}

type editURLRequest struct {
	URL string `json:"url"`
}

// EditURL перезаписывает URL записи. Только для владельца токена записи.
func (r *RegistryController) EditURL(ctx *gin.Context) {
	sender, ok := callerAddress(ctx)
	if !ok {
		return
	}
	sequenceID, ok := sequenceIDParam(ctx)
	if !ok {
		return
	}

	var req editURLRequest
	if bindErr := ctx.ShouldBindJSON(&req); bindErr != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := r.registry.EditURL(ctx.Request.Context(), sender, sequenceID, req.URL); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Redirect переадресует короткую ссылку на сохраненный URL.
func (r *RegistryController) Redirect(ctx *gin.Context) {
	slug := ctx.Param("slug")

	rawURL, err := r.registry.URLOf(ctx.Request.Context(), slug)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Redirect(http.StatusTemporaryRedirect, rawURL)
}

// Cost возвращает стоимость кастомного слага заданной длины.
func (r *RegistryController) Cost(ctx *gin.Context) {
	length, err := strconv.Atoi(ctx.Param("length"))
	if err != nil || length < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid length"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"length": length,
		"cost":   r.registry.Cost(length),
	})
}

// URLOf возвращает URL слага.
func (r *RegistryController) URLOf(ctx *gin.Context) {
	slug := ctx.Param("slug")

	rawURL, err := r.registry.URLOf(ctx.Request.Context(), slug)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"slug": slug, "url": rawURL})
}

// IDOf возвращает sequenceID слага.
func (r *RegistryController) IDOf(ctx *gin.Context) {
	slug := ctx.Param("slug")

	id, err := r.registry.IDOf(ctx.Request.Context(), slug)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"slug": slug, "sequenceID": id})
}

// Metadata возвращает метаданные записи в виде data URI.
func (r *RegistryController) Metadata(ctx *gin.Context) {
	sequenceID, ok := sequenceIDParam(ctx)
	if !ok {
		return
	}

	uri, err := r.registry.MetadataOf(ctx.Request.Context(), sequenceID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"sequenceID": sequenceID, "metadata": uri})
}

// getShortURL вспомогательный метод который создает короткую ссылку.
func (r *RegistryController) getShortURL(req *http.Request, slug string) string {
	var scheme = "http"
	if req.TLS != nil {
		scheme = "https"
	}
	if r.baseURL == nil {
		return fmt.Sprintf("%s://%s/%s", scheme, req.Host, slug)
	}
	return fmt.Sprintf("%s/%s", r.baseURL, slug)
}
