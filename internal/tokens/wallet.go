package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// WalletClaims представляет данные JWT токена кошелька вызывающего.
type WalletClaims struct {
	jwt.RegisteredClaims
	Address string
}

// GenerateWalletJWT создает JWT токен кошелька.
//
// Параметры:
//   - address: адрес вызывающего
//   - expire: срок действия токена
//   - key: ключ для подписи токена
//
// Возвращает:
//   - string: сгенерированный JWT токен
//   - error: ошибка генерации токена
func GenerateWalletJWT(address string, expire time.Duration, key []byte) (string, error) {
	walletClaims := WalletClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
		},
		Address: address,
	}
	token, err := generateJWT(walletClaims, key)
	if err != nil {
		return "", fmt.Errorf("generating wallet jwt token: %w", err)
	}
	return token, nil
}

// ValidateWalletJWT проверяет JWT токен кошелька.
//
// Параметры:
//   - tokenString: JWT токен в виде строки
//   - key: ключ для проверки подписи
//
// Возвращает:
//   - *jwt.Token: проверенный токен
//   - error: ошибка проверки
func ValidateWalletJWT(tokenString string, key []byte) (*jwt.Token, error) {
	token, err := validateJWT(tokenString, new(WalletClaims), key)
	if err != nil {
		return nil, fmt.Errorf("validating wallet jwt token: %w", err)
	}

	_, ok := token.Claims.(*WalletClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return token, nil
}

func generateJWT(claims jwt.Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("generating jwt token: %w", err)
	}

	return tokenString, nil
}

func validateJWT(tokenString string, claims jwt.Claims, key []byte) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing jwt token: %w", err)
	}
	return token, nil
}
