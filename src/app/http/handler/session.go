package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"thethird/src/app/http/dto"
	"thethird/src/app/http/response"
	"thethird/src/app/middleware"
	"thethird/src/core/domain"
	"thethird/src/core/usecase"
)

// SessionHandler handles the voting session lifecycle.
type SessionHandler struct {
	sessionService *usecase.SessionService
}

func NewSessionHandler(sessionService *usecase.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// List returns the team's sessions, optionally filtered by ?status=.
// GET /v1/teams/:team_id/sessions
func (h *SessionHandler) List(c *gin.Context) {
	teamID, ok := uuidParam(c, "team_id")
	if !ok {
		return
	}
	var status *domain.SessionStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.SessionStatus(strings.ToUpper(raw))
		status = &s
	}

	sessions, err := h.sessionService.List(c.Request.Context(), middleware.CallerID(c), teamID, status)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, sessions)
}

// GET /v1/sessions/:session_id
func (h *SessionHandler) Get(c *gin.Context) {
	sessionID, ok := uuidParam(c, "session_id")
	if !ok {
		return
	}

	detail, err := h.sessionService.Get(c.Request.Context(), middleware.CallerID(c), sessionID)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, dto.FromSessionDetail(detail))
}

// GET /v1/sessions/:session_id/progress
func (h *SessionHandler) Progress(c *gin.Context) {
	sessionID, ok := uuidParam(c, "session_id")
	if !ok {
		return
	}

	p, err := h.sessionService.Progress(c.Request.Context(), middleware.CallerID(c), sessionID)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, dto.FromProgress(p))
}

// POST /v1/sessions/:session_id/reading
func (h *SessionHandler) StartReading(c *gin.Context) {
	h.transition(c, h.sessionService.StartReading)
}

// POST /v1/sessions/:session_id/complete
func (h *SessionHandler) Complete(c *gin.Context) {
	h.transition(c, h.sessionService.Complete)
}

func (h *SessionHandler) transition(c *gin.Context, step func(ctx context.Context, callerID, sessionID uuid.UUID) (*domain.Session, error)) {
	sessionID, ok := uuidParam(c, "session_id")
	if !ok {
		return
	}

	session, err := step(c.Request.Context(), middleware.CallerID(c), sessionID)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, session)
}

// AssignReader picks who reads the comments aloud.
// PUT /v1/sessions/:session_id/reader
func (h *SessionHandler) AssignReader(c *gin.Context) {
	sessionID, ok := uuidParam(c, "session_id")
	if !ok {
		return
	}
	var req dto.AssignReaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	session, err := h.sessionService.AssignReader(c.Request.Context(), middleware.CallerID(c), sessionID, req.PlayerID)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, session)
}
