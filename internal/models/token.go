package models

import "time"

// Token владельческий токен записи реестра. Выпускается строго один раз
// на sequenceID, владелец меняется только через передачу токена.
type Token struct {
	ID         uint      `json:"ID" gorm:"primaryKey"`
	CreatedAt  time.Time `json:"createdAt"`
	SequenceID uint64    `json:"sequenceID" gorm:"uniqueIndex"`
	Owner      string    `json:"owner" gorm:"size:64"`
}
