package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"thethird/src/app/http/dto"
	"thethird/src/app/http/response"
	"thethird/src/app/middleware"
	"thethird/src/core/usecase"
)

// TeamHandler handles team, roster and match endpoints.
type TeamHandler struct {
	teamService *usecase.TeamService
}

func NewTeamHandler(teamService *usecase.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// Create bootstraps a team and its manager. No caller identity is needed.
// POST /v1/teams
func (h *TeamHandler) Create(c *gin.Context) {
	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	res, err := h.teamService.CreateTeam(c.Request.Context(), req.Name, req.ManagerName)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, dto.FromCreateTeam(res))
}

// GET /v1/teams/:team_id/players
func (h *TeamHandler) ListPlayers(c *gin.Context) {
	teamID, ok := uuidParam(c, "team_id")
	if !ok {
		return
	}

	players, err := h.teamService.ListPlayers(c.Request.Context(), middleware.CallerID(c), teamID)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, players)
}

// POST /v1/teams/:team_id/players
func (h *TeamHandler) AddPlayer(c *gin.Context) {
	teamID, ok := uuidParam(c, "team_id")
	if !ok {
		return
	}
	var req dto.AddPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	player, err := h.teamService.AddPlayer(c.Request.Context(), middleware.CallerID(c), teamID, req.DisplayName)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, player)
}

// CreateMatch records a match and opens its voting session.
// POST /v1/teams/:team_id/matches
func (h *TeamHandler) CreateMatch(c *gin.Context) {
	teamID, ok := uuidParam(c, "team_id")
	if !ok {
		return
	}
	var req dto.CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}
	var playedAt time.Time
	if req.PlayedAt != nil {
		playedAt = *req.PlayedAt
	}

	res, err := h.teamService.CreateMatch(c.Request.Context(), middleware.CallerID(c), teamID, req.Opponent, playedAt)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, dto.FromCreateMatch(res))
}
