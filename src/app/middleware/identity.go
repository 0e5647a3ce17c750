package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"thethird/src/app/http/response"
	"thethird/src/core/domain"
	"thethird/src/core/ports"
)

// CallerHeader carries the acting player's ID.
const CallerHeader = "X-User-Id"

const callerKey = "caller"

// Identify resolves the X-User-Id header to a player and stores it in the
// context. Team membership and role checks are left to the use cases since
// they depend on the resource being accessed.
func Identify(repo ports.VotingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := GetRequestID(c)

		raw := c.GetHeader(CallerHeader)
		if raw == "" {
			response.Unauthorized(c, "missing X-User-Id header", requestID)
			return
		}

		callerID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid X-User-Id header", requestID)
			return
		}

		player, err := repo.GetPlayer(c.Request.Context(), callerID)
		if err != nil {
			if domain.IsNotFound(err) {
				response.Unauthorized(c, "unknown player", requestID)
				return
			}
			response.FromDomainError(c, err, requestID)
			return
		}

		c.Set(callerKey, player)
		c.Next()
	}
}

// Caller returns the player stored by Identify, or nil.
func Caller(c *gin.Context) *domain.Player {
	if v, ok := c.Get(callerKey); ok {
		if p, ok := v.(*domain.Player); ok {
			return p
		}
	}
	return nil
}

// CallerID returns the identified player's ID, or uuid.Nil.
func CallerID(c *gin.Context) uuid.UUID {
	if p := Caller(c); p != nil {
		return p.ID
	}
	return uuid.Nil
}
