package models

import "time"

// User описывает зарегистрированного пользователя сервиса.
type User struct {
	ID           int64     `db:"id" json:"user_id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	MobileNo     string    `db:"mobile_no" json:"mobile_no"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// OneTimePasscode хранит актуальный код подтверждения для номера телефона.
// На один номер существует не более одной строки: повторная генерация
// перезаписывает код. Срок жизни кода не ограничен.
type OneTimePasscode struct {
	ID        int64     `db:"id" json:"id"`
	MobileNo  string    `db:"mobile_no" json:"mobile_no"`
	Code      string    `db:"code" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Task описывает задачу пользователя.
type Task struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	DueDate     time.Time `db:"due_date" json:"due_date"`
	Priority    int       `db:"priority" json:"priority"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// StatusDone — статус завершённой задачи; такие задачи не участвуют
// в ручной сортировке.
const StatusDone = "Done"

// StatusToDo — статус по умолчанию для новой задачи.
const StatusToDo = "To Do"
