package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/noelvk/taskpad-backend/internal/db"
	"github.com/noelvk/taskpad-backend/internal/models"
)

// ErrTaskNotFound возвращается, когда задача не найдена или принадлежит
// другому пользователю.
var ErrTaskNotFound = errors.New("task not found")

// Разрешённые для обновления колонки таблицы tasks.
var updatableTaskColumns = map[string]struct{}{
	"title":       {},
	"description": {},
	"status":      {},
	"due_date":    {},
	"priority":    {},
}

// Разрешённые колонки сортировки для ручного упорядочивания.
var orderableTaskColumns = map[string]struct{}{
	"created_at": {},
	"due_date":   {},
}

// TaskRepository отвечает за работу с таблицей tasks. Каждый запрос
// фильтруется по владельцу: чужие задачи недостижимы на уровне SQL.
type TaskRepository struct {
	exec *db.Executor
}

// NewTaskRepository создаёт экземпляр репозитория.
func NewTaskRepository(exec *db.Executor) *TaskRepository {
	return &TaskRepository{exec: exec}
}

// Create создаёт задачу и заполняет её идентификатор и таймстемпы.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (user_id, title, description, status, due_date, priority)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	if err := r.exec.Write(
		ctx, task, query,
		task.UserID, task.Title, task.Description, task.Status, task.DueDate, task.Priority,
	); err != nil {
		return fmt.Errorf("task repository: create %w", err)
	}

	return nil
}

// ListByUser возвращает задачи пользователя, опционально отфильтрованные
// по статусу.
func (r *TaskRepository) ListByUser(ctx context.Context, userID int64, status *string) ([]models.Task, error) {
	var tasks []models.Task

	if status != nil {
		query := `
			SELECT id, user_id, title, description, status, due_date, priority, created_at, updated_at
			FROM tasks
			WHERE user_id = $1 AND status = $2
			ORDER BY created_at
		`
		if err := r.exec.Read(ctx, &tasks, query, userID, *status); err != nil {
			return nil, fmt.Errorf("task repository: list by user %w", err)
		}
		return tasks, nil
	}

	query := `
		SELECT id, user_id, title, description, status, due_date, priority, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at
	`
	if err := r.exec.Read(ctx, &tasks, query, userID); err != nil {
		return nil, fmt.Errorf("task repository: list by user %w", err)
	}

	return tasks, nil
}

// Update собирает динамический SET из списка разрешённых полей и обновляет
// задачу пользователя. Владелец задачи не меняется никогда.
func (r *TaskRepository) Update(ctx context.Context, userID, taskID int64, fields map[string]interface{}) (int64, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("task repository: update without fields")
	}

	// Стабильный порядок колонок, чтобы запрос был воспроизводим.
	columns := make([]string, 0, len(fields))
	for column := range fields {
		if _, ok := updatableTaskColumns[column]; !ok {
			return 0, fmt.Errorf("task repository: column %s is not updatable", column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	setParts := make([]string, 0, len(columns)+1)
	args := make([]interface{}, 0, len(columns)+2)
	args = append(args, taskID, userID)
	for i, column := range columns {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, i+3))
		args = append(args, fields[column])
	}
	setParts = append(setParts, "updated_at = NOW()")

	query := fmt.Sprintf(
		`UPDATE tasks SET %s WHERE id = $1 AND user_id = $2 RETURNING id`,
		strings.Join(setParts, ", "),
	)

	var id int64
	if err := r.exec.Write(ctx, &id, query, args...); err != nil {
		if errors.Is(err, db.ErrNoResult) {
			return 0, ErrTaskNotFound
		}
		return 0, fmt.Errorf("task repository: update %w", err)
	}

	return id, nil
}

// Delete удаляет задачу пользователя.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID int64) (int64, error) {
	var id int64
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2 RETURNING id`
	if err := r.exec.Write(ctx, &id, query, taskID, userID); err != nil {
		if errors.Is(err, db.ErrNoResult) {
			return 0, ErrTaskNotFound
		}
		return 0, fmt.Errorf("task repository: delete %w", err)
	}

	return id, nil
}

// SetPriority записывает новый приоритет одной задачи пользователя.
func (r *TaskRepository) SetPriority(ctx context.Context, userID, taskID int64, priority int) (int64, error) {
	var id int64
	query := `
		UPDATE tasks
		SET priority = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id
	`
	if err := r.exec.Write(ctx, &id, query, taskID, userID, priority); err != nil {
		if errors.Is(err, db.ErrNoResult) {
			return 0, ErrTaskNotFound
		}
		return 0, fmt.Errorf("task repository: set priority %w", err)
	}

	return id, nil
}

// ListActiveOrdered возвращает незавершённые задачи пользователя,
// отсортированные по одной из разрешённых колонок.
func (r *TaskRepository) ListActiveOrdered(ctx context.Context, userID int64, orderBy string) ([]models.Task, error) {
	if _, ok := orderableTaskColumns[orderBy]; !ok {
		return nil, fmt.Errorf("task repository: column %s is not orderable", orderBy)
	}

	// Колонка проверена по allow-list, подстановка в текст запроса безопасна.
	query := fmt.Sprintf(`
		SELECT id, user_id, title, description, status, due_date, priority, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND status <> $2
		ORDER BY priority DESC, %s
	`, orderBy)

	var tasks []models.Task
	if err := r.exec.Read(ctx, &tasks, query, userID, models.StatusDone); err != nil {
		return nil, fmt.Errorf("task repository: list active ordered %w", err)
	}

	return tasks, nil
}
