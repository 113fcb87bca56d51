package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/noelvk/taskpad-backend/internal/logger"
	"github.com/noelvk/taskpad-backend/internal/models"
	"github.com/noelvk/taskpad-backend/internal/pkg/apperror"
	"github.com/noelvk/taskpad-backend/internal/repository"
	"github.com/noelvk/taskpad-backend/internal/validation"
)

// UserRepository описывает зависимости AuthService от слоя хранилища.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByMobile(ctx context.Context, mobile string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// OTPRepository описывает хранилище кодов подтверждения.
type OTPRepository interface {
	Upsert(ctx context.Context, mobile, code string) (*models.OneTimePasscode, error)
	GetByMobileAndCode(ctx context.Context, mobile, code string) (*models.OneTimePasscode, error)
}

// OTPSender доставляет код подтверждения внеполосным каналом (SMS шлюз).
type OTPSender interface {
	Send(ctx context.Context, mobile, code string) error
}

// AuthService инкапсулирует регистрацию, выдачу и проверку OTP и выпуск
// сессионных токенов.
type AuthService struct {
	users     UserRepository
	otps      OTPRepository
	tokens    *TokenManager
	sender    OTPSender
	otpLength int
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	MobileNo string
}

// VerifyResult возвращает итог успешной проверки OTP.
type VerifyResult struct {
	User  *models.User
	Token string
}

// NewAuthService создаёт сервис аутентификации. sender может быть nil:
// тогда код уходит только в теле ответа.
func NewAuthService(users UserRepository, otps OTPRepository, tokens *TokenManager, sender OTPSender, otpLength int) *AuthService {
	if otpLength <= 0 {
		otpLength = validation.OTPCodeLength
	}
	return &AuthService{
		users:     users,
		otps:      otps,
		tokens:    tokens,
		sender:    sender,
		otpLength: otpLength,
	}
}

// Register создаёт нового пользователя. Конфликт по номеру телефона
// разрешает уникальное ограничение в базе.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateMobile(in.MobileNo); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Something went wrong")
	}

	user := &models.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		MobileNo:     in.MobileNo,
		PasswordHash: string(passHash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrMobileTaken) {
			return nil, apperror.ErrMobileTaken
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Something went wrong")
	}

	return user, nil
}

// GenerateOTP выпускает новый код для зарегистрированного номера. Для
// незнакомого номера код не создаётся и строка в базе не появляется.
func (s *AuthService) GenerateOTP(ctx context.Context, mobile string) (string, error) {
	if err := validation.ValidateMobile(mobile); err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if _, err := s.users.GetByMobile(ctx, mobile); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", apperror.ErrOTPNotGenerated
		}
		return "", apperror.Wrap(err, apperror.ErrCodeInternal, "Something went wrong")
	}

	code, err := s.generateCode()
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeInternal, "Something went wrong")
	}

	if _, err := s.otps.Upsert(ctx, mobile, code); err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeInternal, "Something went wrong")
	}

	// Доставка по SMS не влияет на ответ: код в любом случае возвращается
	// вызывающему, сбой шлюза только логируется.
	if s.sender != nil {
		if err := s.sender.Send(ctx, mobile, code); err != nil {
			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"mobile": mobile,
					"error":  err.Error(),
				}).Warn("auth service: не удалось отправить OTP по SMS")
			}
		}
	}

	return code, nil
}

// VerifyOTP сверяет код с последним выпущенным для номера и выпускает
// сессионный токен. Код при проверке не удаляется.
func (s *AuthService) VerifyOTP(ctx context.Context, mobile, code string) (*VerifyResult, error) {
	if err := validation.ValidateMobile(mobile); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateOTP(code); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if _, err := s.otps.GetByMobileAndCode(ctx, mobile, code); err != nil {
		if errors.Is(err, repository.ErrOTPNotFound) {
			return nil, apperror.ErrIncorrectOTP
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Something went wrong")
	}

	user, err := s.users.GetByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Something went wrong")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Something went wrong")
	}

	return &VerifyResult{User: user, Token: token}, nil
}

// generateCode выдаёт числовой код фиксированной длины из криптографически
// стойкого источника.
func (s *AuthService) generateCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < s.otpLength; i++ {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("auth service: generate code %w", err)
	}

	return fmt.Sprintf("%0*d", s.otpLength, n), nil
}
