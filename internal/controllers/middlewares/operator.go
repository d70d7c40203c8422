package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OperatorKeyHeader заголовок с ключом оператора для админских запросов.
const OperatorKeyHeader = "X-Operator-Key"

// RequireOperator пропускает запрос только с верным ключом оператора.
// Пустой ключ в конфигурации закрывает админку целиком.
func RequireOperator(operatorKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(OperatorKeyHeader)
		if operatorKey == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(operatorKey)) != 1 {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
