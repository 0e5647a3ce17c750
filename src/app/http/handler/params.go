package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"thethird/src/app/http/response"
	"thethird/src/app/middleware"
)

// uuidParam parses a path parameter, answering 400 when it is malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.ValidationError(c, name, "must be a UUID", middleware.GetRequestID(c))
		return uuid.Nil, false
	}
	return id, true
}

func fail(c *gin.Context, err error) {
	response.FromDomainError(c, err, middleware.GetRequestID(c))
}

func badPayload(c *gin.Context) {
	response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
}

func teamPlayerParams(c *gin.Context) (teamID, playerID uuid.UUID, ok bool) {
	if teamID, ok = uuidParam(c, "team_id"); !ok {
		return
	}
	playerID, ok = uuidParam(c, "player_id")
	return
}
