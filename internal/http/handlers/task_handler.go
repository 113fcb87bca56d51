package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noelvk/taskpad-backend/internal/http/response"
	"github.com/noelvk/taskpad-backend/internal/service"
)

// TaskHandler предоставляет HTTP слой для операций над задачами.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler создаёт хэндлер.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List обрабатывает GET /tasks/task_list.
func (h *TaskHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	var statusFilter *string
	if status := c.Query("status"); status != "" {
		statusFilter = &status
	}

	tasks, err := h.tasks.List(c.Request.Context(), userID, statusFilter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Tasks retrieved successfully", tasks)
}

// Create обрабатывает POST /tasks/create_task.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req struct {
		Title       string `json:"title" form:"title"`
		Description string `json:"description" form:"description"`
		Status      string `json:"status" form:"status"`
		DueDate     string `json:"due_date" form:"due_date"`
	}
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid payload")
		return
	}

	if req.Title == "" || req.DueDate == "" {
		response.Fail(c, http.StatusBadRequest, "Title and due_date are required")
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), userID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "Task created successfully", gin.H{"task_id": task.ID})
}

// Update обрабатывает PATCH /tasks/update_task.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req struct {
		TaskID      int64   `json:"task_id" form:"task_id"`
		Title       *string `json:"title" form:"title"`
		Description *string `json:"description" form:"description"`
		Status      *string `json:"status" form:"status"`
		DueDate     *string `json:"due_date" form:"due_date"`
		Priority    *int    `json:"priority" form:"priority"`
	}
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid payload")
		return
	}

	if req.TaskID <= 0 {
		response.Fail(c, http.StatusBadRequest, "Task ID is required")
		return
	}

	taskID, err := h.tasks.Update(c.Request.Context(), userID, req.TaskID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Task updated successfully", gin.H{"task_id": taskID})
}

// Delete обрабатывает DELETE /tasks/delete_task.
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	rawID := c.Query("task_id")
	if rawID == "" {
		response.Fail(c, http.StatusBadRequest, "Task ID is required")
		return
	}

	taskID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || taskID <= 0 {
		response.Fail(c, http.StatusBadRequest, "Task ID must be a positive integer")
		return
	}

	deletedID, err := h.tasks.Delete(c.Request.Context(), userID, taskID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Task deleted successfully", gin.H{"task_id": deletedID})
}

// Order обрабатывает POST /tasks/order_tasks.
func (h *TaskHandler) Order(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req struct {
		TaskID   int64  `json:"task_id" form:"task_id"`
		Priority int    `json:"priority" form:"priority"`
		OrderBy  string `json:"order_by" form:"order_by"`
	}
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid payload")
		return
	}

	tasks, err := h.tasks.Reorder(c.Request.Context(), userID, service.ReorderInput{
		TaskID:   req.TaskID,
		Priority: req.Priority,
		OrderBy:  req.OrderBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Task ordered successfully", tasks)
}
