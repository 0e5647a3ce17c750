package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a player's role within a team.
type Role string

const (
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

// SessionStatus represents the lifecycle of a voting session.
// Sessions only move forward: OPEN -> READING -> COMPLETED.
type SessionStatus string

const (
	SessionOpen      SessionStatus = "OPEN"
	SessionReading   SessionStatus = "READING"
	SessionCompleted SessionStatus = "COMPLETED"
)

// Valid reports whether s is a known status.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionOpen, SessionReading, SessionCompleted:
		return true
	}
	return false
}

// Next returns the status a session moves to from s, if any.
func (s SessionStatus) Next() (SessionStatus, bool) {
	switch s {
	case SessionOpen:
		return SessionReading, true
	case SessionReading:
		return SessionCompleted, true
	}
	return "", false
}

// Team is a sports team using the app.
type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Player is a team member profile.
type Player struct {
	ID          uuid.UUID `json:"id"`
	TeamID      uuid.UUID `json:"team_id"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsManager reports whether the player runs voting sessions for the team.
func (p *Player) IsManager() bool {
	return p != nil && p.Role == RoleManager
}

// Match is a game played by a team. Each match gets one voting session.
type Match struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	Opponent  string    `json:"opponent"`
	PlayedAt  time.Time `json:"played_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is one round of voting tied to a single match.
type Session struct {
	ID          uuid.UUID     `json:"id"`
	TeamID      uuid.UUID     `json:"team_id"`
	MatchID     uuid.UUID     `json:"match_id"`
	Status      SessionStatus `json:"status"`
	ReaderID    *uuid.UUID    `json:"reader_id"`
	OpenedAt    time.Time     `json:"opened_at"`
	ReadingAt   *time.Time    `json:"reading_at"`
	CompletedAt *time.Time    `json:"completed_at"`
}

// Vote is a voter's ballot for one session. Top and Flop are mandatory;
// the other nominees are optional and nil when the voter skipped them.
type Vote struct {
	ID                  uuid.UUID  `json:"id"`
	SessionID           uuid.UUID  `json:"session_id"`
	VoterID             uuid.UUID  `json:"voter_id"`
	TopPlayerID         uuid.UUID  `json:"top_player_id"`
	TopComment          string     `json:"top_comment"`
	FlopPlayerID        uuid.UUID  `json:"flop_player_id"`
	FlopComment         string     `json:"flop_comment"`
	PredictedTopID      *uuid.UUID `json:"predicted_top_id"`
	PredictedFlopID     *uuid.UUID `json:"predicted_flop_id"`
	BestActionPlayerID  *uuid.UUID `json:"best_action_player_id"`
	WorstActionPlayerID *uuid.UUID `json:"worst_action_player_id"`
	CreatedAt           time.Time  `json:"created_at"`
}

// Nominee returns the player the vote names in category c.
// ok is false when the category is optional and the voter left it empty.
func (v Vote) Nominee(c Category) (id uuid.UUID, ok bool) {
	switch c {
	case CategoryTop:
		return v.TopPlayerID, v.TopPlayerID != uuid.Nil
	case CategoryFlop:
		return v.FlopPlayerID, v.FlopPlayerID != uuid.Nil
	case CategoryBestAction:
		return deref(v.BestActionPlayerID)
	case CategoryWorstAction:
		return deref(v.WorstActionPlayerID)
	}
	return uuid.Nil, false
}

// Prediction returns the player the voter predicted would win category c.
// Only Top and Flop carry predictions.
func (v Vote) Prediction(c Category) (uuid.UUID, bool) {
	switch c {
	case CategoryTop:
		return deref(v.PredictedTopID)
	case CategoryFlop:
		return deref(v.PredictedFlopID)
	}
	return uuid.Nil, false
}

func deref(id *uuid.UUID) (uuid.UUID, bool) {
	if id == nil || *id == uuid.Nil {
		return uuid.Nil, false
	}
	return *id, true
}
