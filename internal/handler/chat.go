package handler

import (
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"talkitout/internal/message_processor"
	"talkitout/internal/repository"
)

// MaxMessageLength bounds one chat turn, in characters.
const MaxMessageLength = 2000

type ChatHandler interface {
	SendMessage(c *gin.Context)
	GetHistory(c *gin.Context)
	ClearHistory(c *gin.Context)
}

type chatHandler struct {
	processor   *message_processor.Processor
	messageRepo repository.MessageRepository
	authRepo    repository.AuthRepository
	logger      *zap.Logger
}

func NewChatHandler(processor *message_processor.Processor, messageRepo repository.MessageRepository, authRepo repository.AuthRepository, logger *zap.Logger) ChatHandler {
	return &chatHandler{
		processor:   processor,
		messageRepo: messageRepo,
		authRepo:    authRepo,
		logger:      logger,
	}
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// SendMessage handles POST /api/chat/messages
func (h *chatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if utf8.RuneCountInString(req.Text) > MaxMessageLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message too long"})
		return
	}

	userID := c.GetInt64("user_id")
	user, err := h.authRepo.GetUserByID(userID)
	if err != nil {
		h.logger.Error("Failed to load user for chat turn", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	result, err := h.processor.ProcessTurn(c.Request.Context(), user, req.Text)
	if err != nil {
		h.logger.Error("Failed to process chat turn", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetHistory handles GET /api/chat/messages?limit=
func (h *chatHandler) GetHistory(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	userID := c.GetInt64("user_id")
	messages, err := h.messageRepo.RecentMessages(userID, limit)
	if err != nil {
		h.logger.Error("Failed to get chat history", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// ClearHistory handles DELETE /api/chat/messages. Risk flags survive: the
// student clears their view of the conversation, not the counselor's.
func (h *chatHandler) ClearHistory(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if err := h.messageRepo.DeleteByUser(userID); err != nil {
		h.logger.Error("Failed to clear chat history", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "History cleared"})
}
