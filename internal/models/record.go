package models

import "time"

// SlugLength длина генерируемого слага.
const SlugLength = 8

// Record структура модели хранения записи реестра.
// Поля Slug, IsCustom и SequenceID после создания записи не изменяются,
// перезаписываться может только URL (владельцем токена записи).
type Record struct {
	ID         uint      `json:"ID" gorm:"primaryKey"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	SequenceID uint64    `json:"sequenceID" gorm:"uniqueIndex"`
	Slug       string    `json:"slug" gorm:"uniqueIndex;size:512"`
	URL        string    `json:"url" gorm:"size:512"`
	IsCustom   bool      `json:"isCustom"`
	Minter     string    `json:"minter" gorm:"size:64"`
	Referrer   string    `json:"referrer" gorm:"size:64"`
}
