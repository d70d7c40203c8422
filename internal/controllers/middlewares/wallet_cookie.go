package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fsdevblog/slugreg/internal/tokens"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	WalletAddressKey        = "walletAddress"
	WalletCookieName        = "wallet"
	WalletJWTExpireDuration = 24 * time.Hour
)

// WalletCookieMiddleware выдает вызывающему адрес кошелька.
// Адрес живет в JWT куке; без куки (или с протухшей) генерируется новый
// адрес и выставляется новая кука. Адрес кладется в контекст gin.
func WalletCookieMiddleware(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		walletAuthCookie, err := c.Request.Cookie(WalletCookieName)

		if err != nil && !errors.Is(err, http.ErrNoCookie) {
			// куки не работают. Нам тут делать нечего, отправляем ошибку выше и едем дальше.
			_ = c.Error(fmt.Errorf("wallet cookie middleware: %w", err))
			c.Next()
			return
		}

		var address string
		needGenerateJWT := true

		if walletAuthCookie != nil {
			// Проверяем токен
			token, validateErr := tokens.ValidateWalletJWT(walletAuthCookie.Value, jwtSecret)
			if validateErr != nil {
				// отправляем ошибку и будем выставлять новый токен.
				_ = c.Error(fmt.Errorf("wallet cookie middleware: %w", validateErr))
			} else if token.Valid {
				needGenerateJWT = false

				// Безопасная операция, т.к. проверка типа происходит в tokens.ValidateWalletJWT.
				address = token.Claims.(*tokens.WalletClaims).Address //nolint:errcheck
			}
		}

		if needGenerateJWT {
			var uErr error
			address, uErr = generateAddress()
			if uErr != nil {
				_ = c.Error(fmt.Errorf("wallet cookie middleware: %w", uErr))
				c.Next()
				return
			}
			tokenString, tokenErr := tokens.GenerateWalletJWT(address, WalletJWTExpireDuration, jwtSecret)
			if tokenErr != nil {
				_ = c.Error(fmt.Errorf("wallet cookie middleware: %w", tokenErr))
				c.Next()
				return
			}
			c.SetCookie(
				WalletCookieName,
				tokenString,
				int(WalletJWTExpireDuration.Seconds()),
				"/",
				"",
				false,
				true,
			)
		}

		// Устанавливаем адрес кошелька в контекст gin.
		c.Set(WalletAddressKey, address)
		c.Next()
	}
}

func generateAddress() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate address error: %w", err)
	}
	return u.String(), nil
}
