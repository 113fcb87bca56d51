package handlers

import (
	"context"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noelvk/taskpad-backend/internal/http/middleware"
	"github.com/noelvk/taskpad-backend/internal/models"
	"github.com/noelvk/taskpad-backend/internal/repository"
	"github.com/noelvk/taskpad-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockUserRepository struct {
	byMobile map[string]*models.User
	byID     map[int64]*models.User
	nextID   int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		byMobile: make(map[string]*models.User),
		byID:     make(map[int64]*models.User),
		nextID:   1,
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if _, ok := m.byMobile[user.MobileNo]; ok {
		return repository.ErrMobileTaken
	}
	user.ID = m.nextID
	m.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	m.byMobile[user.MobileNo] = &stored
	m.byID[user.ID] = &stored
	return nil
}

func (m *mockUserRepository) GetByMobile(ctx context.Context, mobile string) (*models.User, error) {
	user, ok := m.byMobile[mobile]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

type mockOTPRepository struct {
	codes map[string]*models.OneTimePasscode
}

func newMockOTPRepository() *mockOTPRepository {
	return &mockOTPRepository{codes: make(map[string]*models.OneTimePasscode)}
}

func (m *mockOTPRepository) Upsert(ctx context.Context, mobile, code string) (*models.OneTimePasscode, error) {
	otp := &models.OneTimePasscode{MobileNo: mobile, Code: code, UpdatedAt: time.Now()}
	m.codes[mobile] = otp
	copied := *otp
	return &copied, nil
}

func (m *mockOTPRepository) GetByMobileAndCode(ctx context.Context, mobile, code string) (*models.OneTimePasscode, error) {
	otp, ok := m.codes[mobile]
	if !ok || otp.Code != code {
		return nil, repository.ErrOTPNotFound
	}
	copied := *otp
	return &copied, nil
}

type mockTaskRepository struct {
	tasks  map[int64]*models.Task
	nextID int64
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{tasks: make(map[int64]*models.Task), nextID: 1}
}

func (m *mockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	task.ID = m.nextID
	m.nextID++
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

func (m *mockTaskRepository) ListByUser(ctx context.Context, userID int64, status *string) ([]models.Task, error) {
	var out []models.Task
	for _, task := range m.tasks {
		if task.UserID != userID {
			continue
		}
		if status != nil && task.Status != *status {
			continue
		}
		out = append(out, *task)
	}
	return out, nil
}

func (m *mockTaskRepository) Update(ctx context.Context, userID, taskID int64, fields map[string]interface{}) (int64, error) {
	task, ok := m.tasks[taskID]
	if !ok || task.UserID != userID {
		return 0, repository.ErrTaskNotFound
	}
	if title, ok := fields["title"].(string); ok {
		task.Title = title
	}
	if status, ok := fields["status"].(string); ok {
		task.Status = status
	}
	task.UpdatedAt = time.Now()
	return taskID, nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, userID, taskID int64) (int64, error) {
	task, ok := m.tasks[taskID]
	if !ok || task.UserID != userID {
		return 0, repository.ErrTaskNotFound
	}
	delete(m.tasks, taskID)
	return taskID, nil
}

func (m *mockTaskRepository) SetPriority(ctx context.Context, userID, taskID int64, priority int) (int64, error) {
	task, ok := m.tasks[taskID]
	if !ok || task.UserID != userID {
		return 0, repository.ErrTaskNotFound
	}
	task.Priority = priority
	return taskID, nil
}

func (m *mockTaskRepository) ListActiveOrdered(ctx context.Context, userID int64, orderBy string) ([]models.Task, error) {
	var out []models.Task
	for _, task := range m.tasks {
		if task.UserID != userID || task.Status == models.StatusDone {
			continue
		}
		out = append(out, *task)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		if orderBy == "due_date" {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// testServer собирает роутер поверх мок-хранилищ. Rate limit и CORS в
// тестах хэндлеров не участвуют.
type testServer struct {
	engine *gin.Engine
	tokens *service.TokenManager
	users  *mockUserRepository
	tasks  *mockTaskRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := newMockUserRepository()
	otps := newMockOTPRepository()
	tasks := newMockTaskRepository()

	tokens := service.NewTokenManager("secret")
	authService := service.NewAuthService(users, otps, tokens, nil, 6)
	taskService := service.NewTaskService(tasks)

	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService)

	engine := gin.New()
	group := engine.Group("/tasks")
	group.POST("/register_user", authHandler.RegisterUser)
	group.POST("/generate_otp", authHandler.GenerateOTP)
	group.GET("/validate_otp", authHandler.ValidateOTP)

	protected := group.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))
	protected.GET("/task_list", taskHandler.List)
	protected.POST("/create_task", taskHandler.Create)
	protected.PATCH("/update_task", taskHandler.Update)
	protected.DELETE("/delete_task", taskHandler.Delete)
	protected.POST("/order_tasks", taskHandler.Order)

	return &testServer{engine: engine, tokens: tokens, users: users, tasks: tasks}
}

// do выполняет запрос и возвращает записанный ответ.
func (s *testServer) do(t *testing.T, method, target, contentType, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("authorization", token)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

// tokenFor выпускает сессионный токен для существующего пользователя.
func (s *testServer) tokenFor(t *testing.T, userID int64) string {
	t.Helper()

	token, err := s.tokens.Issue(userID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// seedUser регистрирует пользователя напрямую через мок-хранилище.
func (s *testServer) seedUser(t *testing.T, mobile string) *models.User {
	t.Helper()

	user := &models.User{
		Username: "Noel",
		Email:    "noel@example.com",
		MobileNo: mobile,
	}
	if err := s.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

const formContentType = "application/x-www-form-urlencoded"

func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("ожидали HTTP %d, получили %d, тело: %s", want, rec.Code, rec.Body.String())
	}
}
