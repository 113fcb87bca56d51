package service

import (
	"context"
	"errors"
	"time"

	"github.com/noelvk/taskpad-backend/internal/models"
	"github.com/noelvk/taskpad-backend/internal/pkg/apperror"
	"github.com/noelvk/taskpad-backend/internal/repository"
	"github.com/noelvk/taskpad-backend/internal/validation"
)

// TaskRepository описывает зависимости TaskService от слоя хранилища.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	ListByUser(ctx context.Context, userID int64, status *string) ([]models.Task, error)
	Update(ctx context.Context, userID, taskID int64, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, userID, taskID int64) (int64, error)
	SetPriority(ctx context.Context, userID, taskID int64, priority int) (int64, error)
	ListActiveOrdered(ctx context.Context, userID int64, orderBy string) ([]models.Task, error)
}

// Notifier доставляет событие об изменении задач владельцу.
type Notifier interface {
	NotifyUser(userID int64, event string, data interface{})
}

// События задач для подписчиков.
const (
	EventTaskCreated    = "task_created"
	EventTaskUpdated    = "task_updated"
	EventTaskDeleted    = "task_deleted"
	EventTasksReordered = "tasks_reordered"
)

// TaskService инкапсулирует бизнес-логику задач. Все операции выполняются
// строго в пределах задач владельца.
type TaskService struct {
	repo     TaskRepository
	notifier Notifier
}

// CreateTaskInput содержит данные новой задачи.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	DueDate     string
}

// UpdateTaskInput содержит изменяемые поля задачи. Nil поле не трогается.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *string
	Priority    *int
}

// ReorderInput содержит параметры ручного упорядочивания.
type ReorderInput struct {
	TaskID   int64
	Priority int
	OrderBy  string
}

// NewTaskService создаёт сервис задач.
func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// SetNotifier подключает доставку событий об изменениях задач.
func (s *TaskService) SetNotifier(n Notifier) {
	s.notifier = n
}

// List возвращает задачи пользователя; пустой результат — not found.
func (s *TaskService) List(ctx context.Context, userID int64, status *string) ([]models.Task, error) {
	tasks, err := s.repo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Something went wrong")
	}
	if len(tasks) == 0 {
		return nil, apperror.ErrNoTasks
	}

	return tasks, nil
}

// Create создаёт задачу с дедлайном строго в будущем.
func (s *TaskService) Create(ctx context.Context, userID int64, in CreateTaskInput) (*models.Task, error) {
	if err := validation.ValidateNonEmpty("title", in.Title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	due, err := validation.ValidateDueDate(in.DueDate, time.Now())
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	status := in.Status
	if status == "" {
		status = models.StatusToDo
	}

	task := &models.Task{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		DueDate:     due,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Something went wrong")
	}

	s.notify(userID, EventTaskCreated, map[string]interface{}{"task_id": task.ID})

	return task, nil
}

// Update меняет перечисленные поля задачи пользователя.
func (s *TaskService) Update(ctx context.Context, userID, taskID int64, in UpdateTaskInput) (int64, error) {
	fields := make(map[string]interface{})

	if in.Title != nil {
		if err := validation.ValidateNonEmpty("title", *in.Title); err != nil {
			return 0, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Status != nil {
		if err := validation.ValidateNonEmpty("status", *in.Status); err != nil {
			return 0, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		fields["status"] = *in.Status
	}
	if in.DueDate != nil {
		due, err := validation.ParseDueDate(*in.DueDate)
		if err != nil {
			return 0, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		fields["due_date"] = due
	}
	if in.Priority != nil {
		fields["priority"] = *in.Priority
	}

	if len(fields) == 0 {
		return 0, apperror.New(apperror.ErrCodeValidation, "No fields to update")
	}

	id, err := s.repo.Update(ctx, userID, taskID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return 0, apperror.ErrTaskNotFound
		}
		return 0, apperror.Wrap(err, apperror.ErrCodeInternal, "Something went wrong")
	}

	s.notify(userID, EventTaskUpdated, map[string]interface{}{"task_id": id})

	return id, nil
}

// Delete удаляет задачу пользователя.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) (int64, error) {
	id, err := s.repo.Delete(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return 0, apperror.ErrTaskNotFound
		}
		return 0, apperror.Wrap(err, apperror.ErrCodeInternal, "Something went wrong")
	}

	s.notify(userID, EventTaskDeleted, map[string]interface{}{"task_id": id})

	return id, nil
}

// Reorder записывает приоритет одной задачи и возвращает пересобранный
// отсортированный список незавершённых задач. Многострочного
// переупорядочивания нет: меняется ровно одна строка.
func (s *TaskService) Reorder(ctx context.Context, userID int64, in ReorderInput) ([]models.Task, error) {
	if in.TaskID <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "Task ID is required")
	}
	if in.Priority < 1 {
		return nil, apperror.New(apperror.ErrCodeValidation, "Priority must be a positive integer")
	}
	if in.OrderBy != "created_at" && in.OrderBy != "due_date" {
		return nil, apperror.New(apperror.ErrCodeValidation, "order_by must be created_at or due_date")
	}

	if _, err := s.repo.SetPriority(ctx, userID, in.TaskID, in.Priority); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, apperror.ErrTaskNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Something went wrong")
	}

	tasks, err := s.repo.ListActiveOrdered(ctx, userID, in.OrderBy)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Something went wrong")
	}

	s.notify(userID, EventTasksReordered, map[string]interface{}{"task_id": in.TaskID})

	return tasks, nil
}

func (s *TaskService) notify(userID int64, event string, data interface{}) {
	if s.notifier != nil {
		s.notifier.NotifyUser(userID, event, data)
	}
}
