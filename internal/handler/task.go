package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"talkitout/internal/models"
	"talkitout/internal/repository"
)

type TaskHandler interface {
	CreateTask(c *gin.Context)
	GetTasks(c *gin.Context)
	UpdateTask(c *gin.Context)
	DeleteTask(c *gin.Context)
}

type taskHandler struct {
	taskRepo repository.TaskRepository
	logger   *zap.Logger
}

func NewTaskHandler(taskRepo repository.TaskRepository, logger *zap.Logger) TaskHandler {
	return &taskHandler{taskRepo: taskRepo, logger: logger}
}

type CreateTaskRequest struct {
	Title   string     `json:"title" binding:"required,max=200"`
	Notes   string     `json:"notes" binding:"max=1000"`
	DueDate *time.Time `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title   *string    `json:"title"`
	Notes   *string    `json:"notes"`
	Done    *bool      `json:"done"`
	DueDate *time.Time `json:"due_date"`
}

// CreateTask handles POST /api/tasks
func (h *taskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := &models.Task{
		UserID:  c.GetInt64("user_id"),
		Title:   req.Title,
		Notes:   req.Notes,
		DueDate: req.DueDate,
	}
	if err := h.taskRepo.CreateTask(task); err != nil {
		h.logger.Error("Failed to create task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// GetTasks handles GET /api/tasks
func (h *taskHandler) GetTasks(c *gin.Context) {
	userID := c.GetInt64("user_id")
	tasks, err := h.taskRepo.GetTasks(userID)
	if err != nil {
		h.logger.Error("Failed to get tasks", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// UpdateTask handles PUT /api/tasks/:id
func (h *taskHandler) UpdateTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt64("user_id")
	task, err := h.taskRepo.GetTaskByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		h.logger.Error("Failed to get task", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}
	if task.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Notes != nil {
		task.Notes = *req.Notes
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Done != nil && *req.Done != task.Done {
		task.Done = *req.Done
		if task.Done {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}

	if err := h.taskRepo.UpdateTask(task); err != nil {
		h.logger.Error("Failed to update task", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *taskHandler) DeleteTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if err := h.taskRepo.DeleteTask(id, c.GetInt64("user_id")); err != nil {
		h.logger.Error("Failed to delete task", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
