package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"talkitout/internal/models"
	"talkitout/internal/repository"
)

type AnalyticsHandler interface {
	GetDashboard(c *gin.Context)
}

type analyticsHandler struct {
	flagRepo repository.RiskFlagRepository
	logger   *zap.Logger
}

func NewAnalyticsHandler(flagRepo repository.RiskFlagRepository, logger *zap.Logger) AnalyticsHandler {
	return &analyticsHandler{flagRepo: flagRepo, logger: logger}
}

// DashboardStats summarizes the flag queue for the counselor dashboard.
type DashboardStats struct {
	TotalFlags    int                `json:"total_flags"`
	OpenFlags     int                `json:"open_flags"`
	InReviewFlags int                `json:"in_review_flags"`
	ResolvedFlags int                `json:"resolved_flags"`
	FlagsByTag    map[string]int     `json:"flags_by_tag"`
	BySeverity    map[int]int        `json:"flags_by_severity"`
	Flags24h      int                `json:"flags_24h"`
	RecentFlags   []*models.RiskFlag `json:"recent_flags"`
}

// GetDashboard handles GET /api/analytics/dashboard
func (h *analyticsHandler) GetDashboard(c *gin.Context) {
	allFlags, err := h.flagRepo.GetAllFlags()
	if err != nil {
		h.logger.Error("Failed to get flags for dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard data"})
		return
	}

	stats := DashboardStats{
		TotalFlags: len(allFlags),
		FlagsByTag: make(map[string]int),
		BySeverity: make(map[int]int),
	}

	twentyFourHoursAgo := time.Now().Add(-24 * time.Hour)
	for _, flag := range allFlags {
		switch flag.Status {
		case models.FlagOpen:
			stats.OpenFlags++
		case models.FlagInReview:
			stats.InReviewFlags++
		case models.FlagResolved:
			stats.ResolvedFlags++
		}
		for _, tag := range flag.Tags {
			stats.FlagsByTag[tag]++
		}
		stats.BySeverity[int(flag.Severity)]++
		if flag.CreatedAt.After(twentyFourHoursAgo) {
			stats.Flags24h++
		}
	}

	recent := allFlags
	if len(recent) > 10 {
		recent = allFlags[:10]
	}
	stats.RecentFlags = recent

	c.JSON(http.StatusOK, stats)
}
