package services

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"html"
	"unicode/utf8"

	"github.com/fsdevblog/slugreg/internal/models"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	rendererDescription = "Short slugs mapped to URLs. Owned, transferable, forever."

	maxFontSize        = 96
	minFontSize        = 1
	fontShrinkPerChar  = 2
	fontShrinkFromLen  = 12
	fontMinimumFromLen = 48

	hueRange = 361
)

// Metadata JSON метаданные записи.
type Metadata struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	Attributes  []MetadataAttribute `json:"attributes"`
}

type MetadataAttribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// Renderer детерминированно выводит SVG и метаданные из записи.
// Никакой случайности: два рендера одной записи байт-в-байт совпадают.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderSVG отрисовывает слаг на карточке. Цвет выводится из sequenceID,
// фон и текст берут один тон на разной светлоте, размер шрифта линейно
// ужимается с длиной слага. Слаг экранируется, кастомные слаги могут
// содержать символы разметки.
func (r *Renderer) RenderSVG(rec *models.Record) string {
	hue := recordHue(rec.SequenceID)
	size := fontSize(utf8.RuneCountInString(rec.Slug))
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" preserveAspectRatio="xMinYMin meet" viewBox="0 0 350 350">`+
			`<rect width="100%%" height="100%%" fill="hsl(%d,100%%,95%%)"/>`+
			`<text x="50%%" y="50%%" dominant-baseline="middle" text-anchor="middle" fill="hsl(%d,100%%,30%%)" font-size="%dpx">/%s</text>`+
			`</svg>`,
		hue, hue, size, html.EscapeString(rec.Slug),
	)
}

// Render возвращает SVG и сериализованные метаданные записи.
func (r *Renderer) Render(rec *models.Record) (string, []byte, error) {
	svg := r.RenderSVG(rec)
	meta := Metadata{
		// префикс подсказывает что слаг используется как путь
		Name:        "/" + rec.Slug,
		Description: rendererDescription,
		Image:       "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg)),
		Attributes: []MetadataAttribute{
			{TraitType: "Custom", Value: rec.IsCustom},
			{TraitType: "Length", Value: utf8.RuneCountInString(rec.Slug)},
		},
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", nil, errors.Wrapf(err, "marshal metadata for slug %s", rec.Slug)
	}
	return svg, data, nil
}

// MetadataURI возвращает метаданные записи как data URI.
func (r *Renderer) MetadataURI(rec *models.Record) (string, error) {
	_, data, err := r.Render(rec)
	if err != nil {
		return "", err
	}
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// fontSize 96px до 12 символов включительно, дальше минус 2px за символ,
// от 48 символов фиксированный минимум в 1px.
func fontSize(length int) int {
	switch {
	case length <= fontShrinkFromLen:
		return maxFontSize
	case length >= fontMinimumFromLen:
		return minFontSize
	default:
		return maxFontSize - fontShrinkPerChar*length
	}
}

// recordHue детерминированный тон записи: hash(sequenceID) mod 361.
func recordHue(sequenceID uint64) uint64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], sequenceID)
	h := fnv.New64a()
	_, _ = h.Write(buf[:])
	return h.Sum64() % hueRange
}
