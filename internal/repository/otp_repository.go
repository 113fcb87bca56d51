package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/noelvk/taskpad-backend/internal/db"
	"github.com/noelvk/taskpad-backend/internal/models"
)

// ErrOTPNotFound возвращается, когда код для номера не найден или не совпал.
var ErrOTPNotFound = errors.New("otp not found")

// OTPRepository отвечает за работу с таблицей otp_codes.
type OTPRepository struct {
	exec *db.Executor
}

// NewOTPRepository создаёт экземпляр репозитория.
func NewOTPRepository(exec *db.Executor) *OTPRepository {
	return &OTPRepository{exec: exec}
}

// Upsert сохраняет код для номера телефона. Повторная генерация для того же
// номера перезаписывает предыдущий код: живым остаётся ровно один.
func (r *OTPRepository) Upsert(ctx context.Context, mobile, code string) (*models.OneTimePasscode, error) {
	query := `
		INSERT INTO otp_codes (mobile_no, code)
		VALUES ($1, $2)
		ON CONFLICT (mobile_no) DO UPDATE
		SET code = EXCLUDED.code,
			updated_at = NOW()
		RETURNING id, mobile_no, code, created_at, updated_at
	`

	var otp models.OneTimePasscode
	if err := r.exec.Write(ctx, &otp, query, mobile, code); err != nil {
		return nil, fmt.Errorf("otp repository: upsert %w", err)
	}

	return &otp, nil
}

// GetByMobileAndCode ищет точное совпадение номера и кода. Код не удаляется
// при нахождении: проверка не потребляет его.
func (r *OTPRepository) GetByMobileAndCode(ctx context.Context, mobile, code string) (*models.OneTimePasscode, error) {
	var otp models.OneTimePasscode
	query := `
		SELECT id, mobile_no, code, created_at, updated_at
		FROM otp_codes
		WHERE mobile_no = $1 AND code = $2
	`
	if err := r.exec.ReadOne(ctx, &otp, query, mobile, code); err != nil {
		if errors.Is(err, db.ErrNoResult) {
			return nil, ErrOTPNotFound
		}
		return nil, fmt.Errorf("otp repository: get by mobile and code %w", err)
	}

	return &otp, nil
}
