package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noelvk/taskpad-backend/internal/http/response"
	"github.com/noelvk/taskpad-backend/internal/service"
)

// ContextUserIDKey — ключ gin.Context с идентификатором пользователя.
const ContextUserIDKey = "userID"

// AuthMiddleware проверяет сессионный токен из заголовка authorization.
// Токен передаётся как есть, без префикса Bearer; отсутствие заголовка —
// отказ, а не гостевой режим.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("authorization")

		userID, err := tokens.Verify(raw)
		if err != nil {
			c.Abort()
			response.Fail(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}
