package handler

import (
	"github.com/gin-gonic/gin"

	"thethird/src/app/http/dto"
	"thethird/src/app/http/response"
	"thethird/src/app/middleware"
	"thethird/src/core/usecase"
)

// VoteHandler handles ballot submission.
type VoteHandler struct {
	voteService *usecase.VoteService
}

func NewVoteHandler(voteService *usecase.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// Cast records the caller's ballot.
// POST /v1/sessions/:session_id/votes
func (h *VoteHandler) Cast(c *gin.Context) {
	sessionID, ok := uuidParam(c, "session_id")
	if !ok {
		return
	}
	var req dto.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	vote, err := h.voteService.Cast(c.Request.Context(), middleware.CallerID(c), sessionID, req.ToBallot())
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, vote)
}
