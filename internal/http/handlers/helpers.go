package handlers

import (
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noelvk/taskpad-backend/internal/http/middleware"
)

var errUserNotFound = errors.New("пользователь не найден в контексте")

// currentUserID извлекает userID из контекста.
func currentUserID(c *gin.Context) (int64, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, errUserNotFound
	}

	userID, ok := raw.(int64)
	if !ok {
		return 0, errUserNotFound
	}

	return userID, nil
}

// formParams собирает параметры запроса из query-строки и form-encoded
// тела в один набор. Тело читается вручную, чтобы форма в GET запросах
// тоже учитывалась.
func formParams(c *gin.Context) (url.Values, error) {
	values := url.Values{}
	for key, vals := range c.Request.URL.Query() {
		values[key] = append(values[key], vals...)
	}

	if strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded") && c.Request.Body != nil {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, err
		}
		parsed, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, err
		}
		for key, vals := range parsed {
			values[key] = append(values[key], vals...)
		}
	}

	return values, nil
}
