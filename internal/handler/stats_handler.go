package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"kvitto/internal/domain"
	"kvitto/internal/service"
)

// StatsHandler handles the aggregate dashboard endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Dashboard handles GET /api/v1/stats/dashboard. Admins see the global view,
// members see their own receipts only.
func (h *StatsHandler) Dashboard(c *gin.Context) {
	userID, role, ok := authedUser(c)
	if !ok {
		return
	}

	var (
		stats *domain.DashboardStats
		err   error
	)
	if role == domain.RoleAdmin {
		stats, err = h.statsService.Dashboard(c.Request.Context())
	} else {
		stats, err = h.statsService.DashboardForUser(c.Request.Context(), userID)
	}
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}

// Monthly handles GET /api/v1/stats/monthly?year=2026 (admin only).
func (h *StatsHandler) Monthly(c *gin.Context) {
	year, _ := strconv.Atoi(c.DefaultQuery("year", "0"))

	stats, err := h.statsService.Monthly(c.Request.Context(), year)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}

// PerUser handles GET /api/v1/stats/users (admin only).
func (h *StatsHandler) PerUser(c *gin.Context) {
	stats, err := h.statsService.PerUser(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}
