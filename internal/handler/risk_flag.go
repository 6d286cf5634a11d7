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
	"talkitout/internal/risk"
)

type RiskFlagHandler interface {
	GetAllFlags(c *gin.Context)
	GetFlagByID(c *gin.Context)
	UpdateFlagStatus(c *gin.Context)
	CheckOverreliance(c *gin.Context)
}

type riskFlagHandler struct {
	flagRepo repository.RiskFlagRepository
	detector *risk.OverrelianceDetector
	logger   *zap.Logger
}

func NewRiskFlagHandler(flagRepo repository.RiskFlagRepository, detector *risk.OverrelianceDetector, logger *zap.Logger) RiskFlagHandler {
	return &riskFlagHandler{flagRepo: flagRepo, detector: detector, logger: logger}
}

// GetAllFlags handles GET /api/flags
// Query parameters:
// - status: filter by review status (optional)
// - tag: filter by risk tag (optional)
func (h *riskFlagHandler) GetAllFlags(c *gin.Context) {
	status := c.Query("status")
	tag := c.Query("tag")

	var flags []*models.RiskFlag
	var err error

	switch {
	case status != "":
		if !models.FlagStatus(status).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Valid values: open, in_review, resolved"})
			return
		}
		flags, err = h.flagRepo.GetFlagsByStatus(models.FlagStatus(status))
	case tag != "":
		if !models.RiskTag(tag).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag"})
			return
		}
		flags, err = h.flagRepo.GetFlagsByTag(models.RiskTag(tag))
	default:
		flags, err = h.flagRepo.GetAllFlags()
	}

	if err != nil {
		h.logger.Error("Failed to get risk flags", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve flags"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"flags": flags})
}

// GetFlagByID handles GET /api/flags/:id
func (h *riskFlagHandler) GetFlagByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flag ID"})
		return
	}

	flag, err := h.flagRepo.GetFlagByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flag not found"})
			return
		}
		h.logger.Error("Failed to get risk flag", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve flag"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"flag": flag})
}

// UpdateFlagStatus handles PUT /api/flags/:id/status
type UpdateFlagStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

func (h *riskFlagHandler) UpdateFlagStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flag ID"})
		return
	}

	var req UpdateFlagStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := models.FlagStatus(req.Status)
	if !target.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Valid values: open, in_review, resolved"})
		return
	}

	flag, err := h.flagRepo.GetFlagByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flag not found"})
			return
		}
		h.logger.Error("Failed to get risk flag", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update flag"})
		return
	}

	if !flag.Status.CanTransitionTo(target) {
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
		return
	}

	var resolvedAt *time.Time
	if target == models.FlagResolved {
		now := time.Now()
		resolvedAt = &now
	}

	reviewedBy := c.GetString("username")
	if err := h.flagRepo.UpdateFlagReview(id, target, reviewedBy, req.Notes, resolvedAt); err != nil {
		h.logger.Error("Failed to update flag status", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update flag"})
		return
	}

	h.logger.Info("Risk flag status updated",
		zap.Int64("flag_id", id),
		zap.String("from", string(flag.Status)),
		zap.String("to", string(target)),
		zap.String("reviewed_by", reviewedBy))

	c.JSON(http.StatusOK, gin.H{"message": "Flag status updated successfully"})
}

// CheckOverreliance handles GET /api/users/:id/overreliance. Advisory signal
// only: nothing is persisted.
func (h *riskFlagHandler) CheckOverreliance(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	overreliant, err := h.detector.Detect(userID)
	if err != nil {
		h.logger.Error("Failed to run overreliance check", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check overreliance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "overreliant": overreliant})
}
