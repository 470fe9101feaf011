package handler

import (
	"lingolab/internal/domain"
	"lingolab/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LeaderboardHandler exposes the ranked leaderboard endpoint.
type LeaderboardHandler struct {
	leaderboardService service.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// GetLeaderboard returns the ranked population for one metric.
// @Summary Get the leaderboard
// @Description Returns all users ranked by the requested metric. Supported metrics: badgeCount, weeklyXP, streak.
// @Tags leaderboard
// @Produce json
// @Param metric query string false "Ranking metric" default(weeklyXP)
// @Success 200 {object} dto.LeaderboardResponse
// @Failure 400 {object} middleware.ErrorResponse "Unknown metric"
// @Router /leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	metric := c.Query("metric", string(domain.MetricWeeklyXP))

	resp, err := h.leaderboardService.GetLeaderboard(c.Context(), metric)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
