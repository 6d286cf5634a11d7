package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"talkitout/internal/models"
	"talkitout/internal/repository"
)

type PomodoroHandler interface {
	CreateSession(c *gin.Context)
	GetSessions(c *gin.Context)
	GetStats(c *gin.Context)
}

type pomodoroHandler struct {
	pomodoroRepo repository.PomodoroRepository
	logger       *zap.Logger
}

func NewPomodoroHandler(pomodoroRepo repository.PomodoroRepository, logger *zap.Logger) PomodoroHandler {
	return &pomodoroHandler{pomodoroRepo: pomodoroRepo, logger: logger}
}

type CreateSessionRequest struct {
	Kind            string    `json:"kind" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=1,max=120"`
	Completed       bool      `json:"completed"`
	StartedAt       time.Time `json:"started_at" binding:"required"`
}

// CreateSession handles POST /api/pomodoro/sessions. The timer runs in the
// client; the backend records finished (or abandoned) runs.
func (h *pomodoroHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Kind != models.PomodoroFocus && req.Kind != models.PomodoroBreak {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid kind. Valid values: focus, break"})
		return
	}

	session := &models.PomodoroSession{
		UserID:          c.GetInt64("user_id"),
		Kind:            req.Kind,
		DurationMinutes: req.DurationMinutes,
		Completed:       req.Completed,
		StartedAt:       req.StartedAt,
	}
	if err := h.pomodoroRepo.CreateSession(session); err != nil {
		h.logger.Error("Failed to record pomodoro session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// GetSessions handles GET /api/pomodoro/sessions
func (h *pomodoroHandler) GetSessions(c *gin.Context) {
	userID := c.GetInt64("user_id")
	sessions, err := h.pomodoroRepo.GetSessions(userID, 50)
	if err != nil {
		h.logger.Error("Failed to get pomodoro sessions", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// GetStats handles GET /api/pomodoro/stats — today's focus summary.
func (h *pomodoroHandler) GetStats(c *gin.Context) {
	userID := c.GetInt64("user_id")
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := h.pomodoroRepo.GetStatsSince(userID, midnight)
	if err != nil {
		h.logger.Error("Failed to get pomodoro stats", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
