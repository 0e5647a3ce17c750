package handler

import (
	"github.com/gin-gonic/gin"

	"thethird/src/app/http/response"
	"thethird/src/app/middleware"
	"thethird/src/core/domain"
	"thethird/src/core/usecase"
)

// StatsHandler serves the team's history: leaderboards, prediction
// accuracy, badges and rivalries.
type StatsHandler struct {
	statsService *usecase.StatsService
}

func NewStatsHandler(statsService *usecase.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Leaderboard defaults to the top category.
// GET /v1/teams/:team_id/leaderboard?category=
func (h *StatsHandler) Leaderboard(c *gin.Context) {
	teamID, ok := uuidParam(c, "team_id")
	if !ok {
		return
	}
	category, err := domain.ParseCategory(c.DefaultQuery("category", string(domain.CategoryTop)))
	if err != nil {
		fail(c, err)
		return
	}

	board, err := h.statsService.Leaderboard(c.Request.Context(), middleware.CallerID(c), teamID, category)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, board)
}

// GET /v1/teams/:team_id/predictions
func (h *StatsHandler) Predictions(c *gin.Context) {
	teamID, ok := uuidParam(c, "team_id")
	if !ok {
		return
	}

	records, err := h.statsService.Predictions(c.Request.Context(), middleware.CallerID(c), teamID)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, records)
}

// GET /v1/teams/:team_id/players/:player_id/badges
func (h *StatsHandler) Badges(c *gin.Context) {
	teamID, playerID, ok := teamPlayerParams(c)
	if !ok {
		return
	}

	badges, err := h.statsService.Badges(c.Request.Context(), middleware.CallerID(c), teamID, playerID)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, badges)
}

// GET /v1/teams/:team_id/players/:player_id/rivalries
func (h *StatsHandler) Rivalries(c *gin.Context) {
	teamID, playerID, ok := teamPlayerParams(c)
	if !ok {
		return
	}

	rivalries, err := h.statsService.Rivalries(c.Request.Context(), middleware.CallerID(c), teamID, playerID)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, rivalries)
}
