package db

import (
	"github.com/fsdevblog/slugreg/internal/db/memory"
)

// MemoryStorage набор in-memory хранилищ приложения.
// Записи, балансы и токены лежат в отдельных пространствах ключей.
type MemoryStorage struct {
	Records  *memory.MStorage
	Balances *memory.MStorage
	Tokens   *memory.MStorage
}

func NewMemStorage() *MemoryStorage {
	return &MemoryStorage{
		Records:  memory.NewMemStorage(),
		Balances: memory.NewMemStorage(),
		Tokens:   memory.NewMemStorage(),
	}
}
