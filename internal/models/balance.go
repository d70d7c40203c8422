package models

import "time"

// Balance накопленный к выводу баланс адреса в микроединицах валюты.
// Увеличивается только начислениями комиссий, обнуляется целиком при выводе.
type Balance struct {
	ID        uint      `json:"ID" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Address   string    `json:"address" gorm:"uniqueIndex;size:64"`
	Amount    uint64    `json:"amount"`
}
