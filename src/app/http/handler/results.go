package handler

import (
	"github.com/gin-gonic/gin"

	"thethird/src/app/http/response"
	"thethird/src/app/middleware"
	"thethird/src/core/usecase"
)

// ResultsHandler serves session podiums.
type ResultsHandler struct {
	resultsService *usecase.ResultsService
}

func NewResultsHandler(resultsService *usecase.ResultsService) *ResultsHandler {
	return &ResultsHandler{resultsService: resultsService}
}

// GET /v1/sessions/:session_id/results
func (h *ResultsHandler) Results(c *gin.Context) {
	sessionID, ok := uuidParam(c, "session_id")
	if !ok {
		return
	}

	res, err := h.resultsService.Results(c.Request.Context(), middleware.CallerID(c), sessionID)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, res)
}
