package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/noelvk/taskpad-backend/internal/db"
	"github.com/noelvk/taskpad-backend/internal/models"
)

// Ошибки уровня репозитория.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrMobileTaken  = errors.New("mobile number already registered")
)

// UserRepository отвечает за работу с таблицей users.
type UserRepository struct {
	exec *db.Executor
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(exec *db.Executor) *UserRepository {
	return &UserRepository{exec: exec}
}

// Create создаёт нового пользователя. Уникальность mobile_no контролирует
// ограничение в базе: нарушение переводится в ErrMobileTaken.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, mobile_no, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	if err := r.exec.Write(
		ctx, user, query,
		user.Username, user.Email, user.MobileNo, user.PasswordHash,
	); err != nil {
		if db.IsUniqueViolation(err) {
			return ErrMobileTaken
		}
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// GetByMobile возвращает пользователя по номеру телефона.
func (r *UserRepository) GetByMobile(ctx context.Context, mobile string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, mobile_no, password_hash, created_at, updated_at
		FROM users
		WHERE mobile_no = $1
	`
	if err := r.exec.ReadOne(ctx, &user, query, mobile); err != nil {
		if errors.Is(err, db.ErrNoResult) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by mobile %w", err)
	}

	return &user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, mobile_no, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	if err := r.exec.ReadOne(ctx, &user, query, id); err != nil {
		if errors.Is(err, db.ErrNoResult) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}

	return &user, nil
}
