package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noelvk/taskpad-backend/internal/pkg/apperror"
)

// TokenManager отвечает за выпуск и проверку JWT сессионных токенов.
// Токен подписывается HS256 и несёт единственный клейм user_id; срок
// жизни не ограничен, списка отзыва нет.
type TokenManager struct {
	secret []byte
}

// NewTokenManager создаёт менеджер токенов.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Issue выпускает токен для пользователя.
func (m *TokenManager) Issue(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token manager: sign %w", err)
	}

	return signed, nil
}

// Verify проверяет подпись токена и извлекает user_id. Отсутствующий,
// повреждённый или неподписанный токен — всегда ошибка, гостевого
// режима нет.
func (m *TokenManager) Verify(raw string) (int64, error) {
	if raw == "" {
		return 0, apperror.ErrInvalidToken
	}

	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, apperror.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, apperror.ErrInvalidToken
	}

	// JSON числа приходят как float64.
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return 0, apperror.ErrInvalidToken
	}

	return int64(rawID), nil
}
