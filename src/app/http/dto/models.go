package dto

import (
	"time"

	"github.com/google/uuid"

	"thethird/src/core/domain"
	"thethird/src/core/usecase"
)

// CreateTeamRequest is the payload for POST /v1/teams.
type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	ManagerName string `json:"manager_name" binding:"required"`
}

// AddPlayerRequest is the payload for POST /v1/teams/:team_id/players.
type AddPlayerRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

// CreateMatchRequest is the payload for POST /v1/teams/:team_id/matches.
// PlayedAt defaults to now.
type CreateMatchRequest struct {
	Opponent string     `json:"opponent" binding:"required"`
	PlayedAt *time.Time `json:"played_at"`
}

// CastVoteRequest is the payload for POST /v1/sessions/:session_id/votes.
type CastVoteRequest struct {
	TopPlayerID         uuid.UUID  `json:"top_player_id"`
	TopComment          string     `json:"top_comment"`
	FlopPlayerID        uuid.UUID  `json:"flop_player_id"`
	FlopComment         string     `json:"flop_comment"`
	PredictedTopID      *uuid.UUID `json:"predicted_top_id"`
	PredictedFlopID     *uuid.UUID `json:"predicted_flop_id"`
	BestActionPlayerID  *uuid.UUID `json:"best_action_player_id"`
	WorstActionPlayerID *uuid.UUID `json:"worst_action_player_id"`
}

// ToBallot converts the payload for VoteService.Cast. Missing top or flop
// IDs arrive as uuid.Nil and are rejected there.
func (r CastVoteRequest) ToBallot() usecase.Ballot {
	return usecase.Ballot{
		TopPlayerID:         r.TopPlayerID,
		TopComment:          r.TopComment,
		FlopPlayerID:        r.FlopPlayerID,
		FlopComment:         r.FlopComment,
		PredictedTopID:      r.PredictedTopID,
		PredictedFlopID:     r.PredictedFlopID,
		BestActionPlayerID:  r.BestActionPlayerID,
		WorstActionPlayerID: r.WorstActionPlayerID,
	}
}

// AssignReaderRequest is the payload for PUT /v1/sessions/:session_id/reader.
type AssignReaderRequest struct {
	PlayerID uuid.UUID `json:"player_id" binding:"required"`
}

// TeamResponse is a new team with the manager who created it.
type TeamResponse struct {
	Team    *domain.Team   `json:"team"`
	Manager *domain.Player `json:"manager"`
}

func FromCreateTeam(r *usecase.CreateTeamResult) TeamResponse {
	return TeamResponse{Team: r.Team, Manager: r.Manager}
}

// SessionResponse is a session together with its match.
type SessionResponse struct {
	Session *domain.Session `json:"session"`
	Match   *domain.Match   `json:"match"`
}

func FromCreateMatch(r *usecase.CreateMatchResult) SessionResponse {
	return SessionResponse{Session: r.Session, Match: r.Match}
}

func FromSessionDetail(d *usecase.SessionDetail) SessionResponse {
	return SessionResponse{Session: d.Session, Match: d.Match}
}

// ProgressResponse reports who has voted in a session.
type ProgressResponse struct {
	SessionID uuid.UUID            `json:"session_id"`
	Status    domain.SessionStatus `json:"status"`
	Votes     int                  `json:"votes"`
	Members   int                  `json:"members"`
	Voted     []uuid.UUID          `json:"voted"`
	Pending   []uuid.UUID          `json:"pending"`
}

func FromProgress(p *usecase.Progress) ProgressResponse {
	return ProgressResponse{
		SessionID: p.SessionID,
		Status:    p.Status,
		Votes:     p.Votes,
		Members:   p.Members,
		Voted:     p.Voted,
		Pending:   p.Pending,
	}
}
