package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"talkitout/internal/repository"
)

type AccountHandler interface {
	UpdatePIIConsent(c *gin.Context)
	DeleteAccount(c *gin.Context)
}

type accountHandler struct {
	authRepo     repository.AuthRepository
	messageRepo  repository.MessageRepository
	flagRepo     repository.RiskFlagRepository
	moodRepo     repository.MoodRepository
	taskRepo     repository.TaskRepository
	pomodoroRepo repository.PomodoroRepository
	logger       *zap.Logger
}

func NewAccountHandler(
	authRepo repository.AuthRepository,
	messageRepo repository.MessageRepository,
	flagRepo repository.RiskFlagRepository,
	moodRepo repository.MoodRepository,
	taskRepo repository.TaskRepository,
	pomodoroRepo repository.PomodoroRepository,
	logger *zap.Logger,
) AccountHandler {
	return &accountHandler{
		authRepo:     authRepo,
		messageRepo:  messageRepo,
		flagRepo:     flagRepo,
		moodRepo:     moodRepo,
		taskRepo:     taskRepo,
		pomodoroRepo: pomodoroRepo,
		logger:       logger,
	}
}

type UpdatePIIConsentRequest struct {
	AllowExternalPII *bool `json:"allow_external_pii" binding:"required"`
}

// UpdatePIIConsent handles PUT /api/account/pii-consent
func (h *accountHandler) UpdatePIIConsent(c *gin.Context) {
	var req UpdatePIIConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt64("user_id")
	if err := h.authRepo.UpdateAllowExternalPII(userID, *req.AllowExternalPII); err != nil {
		h.logger.Error("Failed to update PII consent", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update consent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Consent updated"})
}

// DeleteAccount handles DELETE /api/account. Full erasure: this is the only
// path that removes risk flags.
func (h *accountHandler) DeleteAccount(c *gin.Context) {
	userID := c.GetInt64("user_id")

	steps := []struct {
		name string
		fn   func(int64) error
	}{
		{"risk flags", h.flagRepo.DeleteByUser},
		{"messages", h.messageRepo.DeleteByUser},
		{"mood entries", h.moodRepo.DeleteByUser},
		{"tasks", h.taskRepo.DeleteByUser},
		{"pomodoro sessions", h.pomodoroRepo.DeleteByUser},
		{"user", h.authRepo.DeleteUser},
	}
	for _, step := range steps {
		if err := step.fn(userID); err != nil {
			h.logger.Error("Account erasure step failed",
				zap.Int64("user_id", userID),
				zap.String("step", step.name),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
			return
		}
	}

	h.logger.Info("Account erased", zap.Int64("user_id", userID))
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
