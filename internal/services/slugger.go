package services

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"strings"

	"github.com/fsdevblog/slugreg/internal/models"
	"github.com/pkg/errors"
)

// SlugAlphabet фиксированный 58-символьный алфавит без визуально
// неоднозначных символов (0, O, I, l).
const SlugAlphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// alphabetShift сдвиг хеша между символами. 6 бит с запасом покрывают
// диапазон из 58 символов.
const alphabetShift = 6

// defaultMaxAttempts предел обхода пространства слагов при коллизиях.
// Цикл обязан завершаться в рамках бюджета операции, поэтому при
// исчерпании лимита аллокация падает с ошибкой, а не крутится дальше.
const defaultMaxAttempts = 1000

// SlugAllocator детерминированно выводит слаг из счетчика минтов
// и обходит занятые значения.
type SlugAllocator struct {
	maxAttempts int
}

func NewSlugAllocator() *SlugAllocator {
	return &SlugAllocator{maxAttempts: defaultMaxAttempts}
}

// Generate детерминированно выводит 8-символьный кандидат из счетчика:
// sha256 от счетчика, далее по остатку от деления на длину алфавита
// на каждый символ со сдвигом хеша на 6 бит между символами.
func (s *SlugAllocator) Generate(counter uint64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], counter)
	sum := sha256.Sum256(buf[:])
	h := binary.BigEndian.Uint64(sum[:8])

	b := make([]byte, models.SlugLength)
	for i := range b {
		b[i] = SlugAlphabet[h%uint64(len(SlugAlphabet))]
		h >>= alphabetShift
	}
	return string(b)
}

// Advance инкрементирует кандидата как base-58 одометр: справа налево
// каждый символ заменяется следующим по алфавиту, последний символ
// алфавита сбрасывается в первый с переносом влево. Если переносится
// каждая позиция, результат схлопывается в строку из первых символов
// алфавита. Это терминальный заворот, значение может быть занято.
func Advance(candidate string) string {
	b := []byte(candidate)
	for i := len(b) - 1; i >= 0; i-- {
		idx := strings.IndexByte(SlugAlphabet, b[i])
		if idx < len(SlugAlphabet)-1 {
			b[i] = SlugAlphabet[idx+1]
			return string(b)
		}
		b[i] = SlugAlphabet[0]
	}
	return string(b)
}

// Allocate выводит кандидата из счетчика и двигает его одометром пока
// не найдется свободный слаг. Лимит попыток защищает от бесконечного
// цикла на почти заполненном пространстве.
func (s *SlugAllocator) Allocate(
	ctx context.Context,
	counter uint64,
	exists func(ctx context.Context, slug string) (bool, error),
) (string, error) {
	candidate := s.Generate(counter)
	for range s.maxAttempts {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", errors.Wrapf(err, "check candidate %s", candidate)
		}
		if !taken {
			return candidate, nil
		}
		candidate = Advance(candidate)
	}
	return "", ErrSlugSpaceExhausted
}
