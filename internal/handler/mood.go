package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"talkitout/internal/models"
	"talkitout/internal/repository"
)

type MoodHandler interface {
	CreateEntry(c *gin.Context)
	GetEntries(c *gin.Context)
}

type moodHandler struct {
	moodRepo repository.MoodRepository
	logger   *zap.Logger
}

func NewMoodHandler(moodRepo repository.MoodRepository, logger *zap.Logger) MoodHandler {
	return &moodHandler{moodRepo: moodRepo, logger: logger}
}

type CreateMoodRequest struct {
	Mood string `json:"mood" binding:"required"`
	Note string `json:"note" binding:"max=500"`
}

// CreateEntry handles POST /api/moods
func (h *moodHandler) CreateEntry(c *gin.Context) {
	var req CreateMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mood := models.Mood(req.Mood)
	if !mood.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mood. Valid values: great, good, okay, low, struggling"})
		return
	}

	entry := &models.MoodEntry{
		UserID: c.GetInt64("user_id"),
		Mood:   mood,
		Note:   req.Note,
	}
	if err := h.moodRepo.CreateEntry(entry); err != nil {
		h.logger.Error("Failed to create mood entry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save mood"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// GetEntries handles GET /api/moods
func (h *moodHandler) GetEntries(c *gin.Context) {
	userID := c.GetInt64("user_id")
	entries, err := h.moodRepo.GetEntries(userID, 60)
	if err != nil {
		h.logger.Error("Failed to get mood entries", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve moods"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
