package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noelvk/taskpad-backend/internal/validation"
)

func futureDueDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(validation.DueDateLayout)
}

func createTaskBody(title string, days int) string {
	return fmt.Sprintf(`{"title":%q,"description":"task body","due_date":%q}`, title, futureDueDate(days))
}

func TestCreateTaskRequiresAuth(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodPost, "/tasks/create_task", "application/json", createTaskBody("Test Task", 7), "")
	mustStatus(t, rec, http.StatusUnauthorized)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "0", env.Status)
	assert.Equal(t, "Invalid token", env.Message)
}

func TestCreateTaskRejectsGarbageToken(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodPost, "/tasks/create_task", "application/json", createTaskBody("Test Task", 7), "not-a-token")
	mustStatus(t, rec, http.StatusUnauthorized)
}

func TestCreateTask(t *testing.T) {
	server := newTestServer(t)
	user := server.seedUser(t, "9510175265")
	token := server.tokenFor(t, user.ID)

	rec := server.do(t, http.MethodPost, "/tasks/create_task", "application/json", createTaskBody("Test Task", 7), token)
	mustStatus(t, rec, http.StatusCreated)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "1", env.Status)
	assert.Equal(t, "Task created successfully", env.Message)
	require.NotNil(t, env.Data)
	taskID, ok := env.Data["task_id"].(float64)
	require.True(t, ok)
	assert.Greater(t, taskID, float64(0))
}

func TestCreateTaskMissingDueDate(t *testing.T) {
	server := newTestServer(t)
	user := server.seedUser(t, "9510175265")
	token := server.tokenFor(t, user.ID)

	rec := server.do(t, http.MethodPost, "/tasks/create_task", "application/json", `{"title":"Test Task"}`, token)
	mustStatus(t, rec, http.StatusBadRequest)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Title and due_date are required", env.Message)
}

func TestCreateTaskPastDueDate(t *testing.T) {
	server := newTestServer(t)
	user := server.seedUser(t, "9510175265")
	token := server.tokenFor(t, user.ID)

	past := time.Now().AddDate(0, 0, -1).Format(validation.DueDateLayout)
	body := fmt.Sprintf(`{"title":"Test Task","due_date":%q}`, past)

	rec := server.do(t, http.MethodPost, "/tasks/create_task", "application/json", body, token)
	mustStatus(t, rec, http.StatusBadRequest)
}

func TestTaskListEmpty(t *testing.T) {
	server := newTestServer(t)
	user := server.seedUser(t, "9510175265")
	token := server.tokenFor(t, user.ID)

	rec := server.do(t, http.MethodGet, "/tasks/task_list", "", "", token)
	mustStatus(t, rec, http.StatusNotFound)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "0", env.Status)
	assert.Equal(t, "No tasks found", env.Message)
}

func TestTaskListReturnsOwnTasksOnly(t *testing.T) {
	server := newTestServer(t)
	owner := server.seedUser(t, "9510175265")
	other := server.seedUser(t, "9510175266")

	rec := server.do(t, http.MethodPost, "/tasks/create_task", "application/json", createTaskBody("Owner task", 7), server.tokenFor(t, owner.ID))
	mustStatus(t, rec, http.StatusCreated)

	rec = server.do(t, http.MethodGet, "/tasks/task_list", "", "", server.tokenFor(t, owner.ID))
	mustStatus(t, rec, http.StatusOK)

	var env struct {
		Message string `json:"message"`
		Data    []struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Tasks retrieved successfully", env.Message)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Owner task", env.Data[0].Title)

	rec = server.do(t, http.MethodGet, "/tasks/task_list", "", "", server.tokenFor(t, other.ID))
	mustStatus(t, rec, http.StatusNotFound)
}

func TestUpdateTask(t *testing.T) {
	server := newTestServer(t)
	user := server.seedUser(t, "9510175265")
	token := server.tokenFor(t, user.ID)

	rec := server.do(t, http.MethodPost, "/tasks/create_task", "application/json", createTaskBody("Before", 7), token)
	mustStatus(t, rec, http.StatusCreated)
	taskID := int64(decodeEnvelope(t, rec).Data["task_id"].(float64))

	body := fmt.Sprintf(`{"task_id":%d,"title":"After","status":"Done"}`, taskID)
	rec = server.do(t, http.MethodPatch, "/tasks/update_task", "application/json", body, token)
	mustStatus(t, rec, http.StatusOK)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Task updated successfully", env.Message)
	assert.Equal(t, "After", server.tasks.tasks[taskID].Title)
	assert.Equal(t, "Done", server.tasks.tasks[taskID].Status)
}

func TestUpdateTaskMissingID(t *testing.T) {
	server := newTestServer(t)
	user := server.seedUser(t, "9510175265")
	token := server.tokenFor(t, user.ID)

	rec := server.do(t, http.MethodPatch, "/tasks/update_task", "application/json", `{"title":"After"}`, token)
	mustStatus(t, rec, http.StatusBadRequest)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Task ID is required", env.Message)
}

func TestUpdateTaskForeignOwner(t *testing.T) {
	server := newTestServer(t)
	owner := server.seedUser(t, "9510175265")
	other := server.seedUser(t, "9510175266")

	rec := server.do(t, http.MethodPost, "/tasks/create_task", "application/json", createTaskBody("Private", 7), server.tokenFor(t, owner.ID))
	mustStatus(t, rec, http.StatusCreated)
	taskID := int64(decodeEnvelope(t, rec).Data["task_id"].(float64))

	body := fmt.Sprintf(`{"task_id":%d,"title":"Hijacked"}`, taskID)
	rec = server.do(t, http.MethodPatch, "/tasks/update_task", "application/json", body, server.tokenFor(t, other.ID))
	mustStatus(t, rec, http.StatusNotFound)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Task not found", env.Message)
	assert.Equal(t, "Private", server.tasks.tasks[taskID].Title)
}

func TestDeleteTask(t *testing.T) {
	server := newTestServer(t)
	user := server.seedUser(t, "9510175265")
	token := server.tokenFor(t, user.ID)

	rec := server.do(t, http.MethodPost, "/tasks/create_task", "application/json", createTaskBody("Doomed", 7), token)
	mustStatus(t, rec, http.StatusCreated)
	taskID := int64(decodeEnvelope(t, rec).Data["task_id"].(float64))

	rec = server.do(t, http.MethodDelete, fmt.Sprintf("/tasks/delete_task?task_id=%d", taskID), "", "", token)
	mustStatus(t, rec, http.StatusOK)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Task deleted successfully", env.Message)
	_, exists := server.tasks.tasks[taskID]
	assert.False(t, exists)
}

func TestDeleteTaskBadID(t *testing.T) {
	server := newTestServer(t)
	user := server.seedUser(t, "9510175265")
	token := server.tokenFor(t, user.ID)

	rec := server.do(t, http.MethodDelete, "/tasks/delete_task?task_id=abc", "", "", token)
	mustStatus(t, rec, http.StatusBadRequest)

	rec = server.do(t, http.MethodDelete, "/tasks/delete_task", "", "", token)
	mustStatus(t, rec, http.StatusBadRequest)
}

func TestDeleteTaskForeignOwner(t *testing.T) {
	server := newTestServer(t)
	owner := server.seedUser(t, "9510175265")
	other := server.seedUser(t, "9510175266")

	rec := server.do(t, http.MethodPost, "/tasks/create_task", "application/json", createTaskBody("Private", 7), server.tokenFor(t, owner.ID))
	mustStatus(t, rec, http.StatusCreated)
	taskID := int64(decodeEnvelope(t, rec).Data["task_id"].(float64))

	rec = server.do(t, http.MethodDelete, fmt.Sprintf("/tasks/delete_task?task_id=%d", taskID), "", "", server.tokenFor(t, other.ID))
	mustStatus(t, rec, http.StatusNotFound)

	_, exists := server.tasks.tasks[taskID]
	assert.True(t, exists)
}

func TestOrderTasks(t *testing.T) {
	server := newTestServer(t)
	user := server.seedUser(t, "9510175265")
	token := server.tokenFor(t, user.ID)

	rec := server.do(t, http.MethodPost, "/tasks/create_task", "application/json", createTaskBody("first", 3), token)
	mustStatus(t, rec, http.StatusCreated)

	rec = server.do(t, http.MethodPost, "/tasks/create_task", "application/json", createTaskBody("second", 4), token)
	mustStatus(t, rec, http.StatusCreated)
	secondID := int64(decodeEnvelope(t, rec).Data["task_id"].(float64))

	body := fmt.Sprintf(`{"task_id":%d,"priority":5,"order_by":"created_at"}`, secondID)
	rec = server.do(t, http.MethodPost, "/tasks/order_tasks", "application/json", body, token)
	mustStatus(t, rec, http.StatusOK)

	var env struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Task ordered successfully", env.Message)
	require.Len(t, env.Data, 2)
	assert.Equal(t, secondID, env.Data[0].ID)
	assert.Equal(t, "second", env.Data[0].Title)
}

func TestOrderTasksInvalidColumn(t *testing.T) {
	server := newTestServer(t)
	user := server.seedUser(t, "9510175265")
	token := server.tokenFor(t, user.ID)

	body := `{"task_id":1,"priority":5,"order_by":"password_hash"}`
	rec := server.do(t, http.MethodPost, "/tasks/order_tasks", "application/json", body, token)
	mustStatus(t, rec, http.StatusBadRequest)
}
