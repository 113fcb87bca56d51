package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrNoResult возвращается, когда запрос не затронул ни одной строки.
// Отсутствие результата и инфраструктурный сбой — разные ошибки: вызывающий
// код обязан различать их, а не сворачивать всё в один ответ.
var ErrNoResult = errors.New("db: no result")

// uniqueViolation — код ошибки PostgreSQL для нарушения уникального
// ограничения.
const uniqueViolation = "23505"

// Executor выполняет параметризованные запросы поверх явно переданного
// пула соединений. Соединение берётся из пула на время одного запроса
// и возвращается драйвером безусловно.
type Executor struct {
	pool *sqlx.DB
}

// NewExecutor создаёт исполнитель запросов.
func NewExecutor(pool *sqlx.DB) *Executor {
	return &Executor{pool: pool}
}

// Read выполняет SELECT и складывает все строки в dest (указатель на срез).
func (e *Executor) Read(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := e.pool.SelectContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("executor: read %w", err)
	}
	return nil
}

// ReadOne выполняет SELECT одной строки. Отсутствие строки — ErrNoResult.
func (e *Executor) ReadOne(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := e.pool.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoResult
		}
		return fmt.Errorf("executor: read one %w", err)
	}
	return nil
}

// Write выполняет INSERT/UPDATE/DELETE с RETURNING и сканирует
// возвращённую строку в dest. Если запрос не затронул ни одной строки,
// возвращается ErrNoResult.
func (e *Executor) Write(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := e.pool.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoResult
		}
		return fmt.Errorf("executor: write %w", err)
	}
	return nil
}

// Ping проверяет живость соединения с базой.
func (e *Executor) Ping(ctx context.Context) error {
	return e.pool.PingContext(ctx)
}

// Stats возвращает статистику пула соединений.
func (e *Executor) Stats() sql.DBStats {
	return e.pool.Stats()
}

// IsUniqueViolation сообщает, вызвана ли ошибка нарушением уникального
// ограничения. Используется как арбитр конфликтов вместо отдельного
// check-then-insert запроса.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
