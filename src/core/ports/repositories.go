// Package ports defines the interfaces that connect the core to infrastructure.
//
// Ports live in the core; adapters live in src/infra (repo, cache). The core
// never imports an adapter.
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"thethird/src/core/domain"
)

// Repository is the base interface for all repositories.
type Repository interface {
	// Health checks if the underlying storage is reachable.
	Health(ctx context.Context) error
}

// SessionFilter narrows ListSessions.
type SessionFilter struct {
	// Status restricts the list to one status when set.
	Status *domain.SessionStatus
}

// SessionVotes bundles a session with all of its votes.
type SessionVotes struct {
	Session domain.Session
	Votes   []domain.Vote
}

// VotingRepository is the storage surface of the app.
type VotingRepository interface {
	Repository

	// Teams & players
	CreateTeam(ctx context.Context, name, managerName string) (*domain.Team, *domain.Player, error)
	GetTeam(ctx context.Context, teamID uuid.UUID) (*domain.Team, error)
	CreatePlayer(ctx context.Context, teamID uuid.UUID, displayName string, role domain.Role) (*domain.Player, error)
	GetPlayer(ctx context.Context, playerID uuid.UUID) (*domain.Player, error)
	ListPlayers(ctx context.Context, teamID uuid.UUID) ([]domain.Player, error)

	// Matches & sessions
	//
	// CreateMatchSession inserts the match and its OPEN session atomically.
	// It returns a conflict if the team already has an OPEN or READING session.
	CreateMatchSession(ctx context.Context, teamID uuid.UUID, opponent string, playedAt time.Time) (*domain.Match, *domain.Session, error)
	GetMatch(ctx context.Context, matchID uuid.UUID) (*domain.Match, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)
	ListSessions(ctx context.Context, teamID uuid.UUID, filter SessionFilter) ([]domain.Session, error)
	// TransitionSession moves a session from one status to another.
	// It returns a conflict when the session is no longer in status from.
	TransitionSession(ctx context.Context, sessionID uuid.UUID, from, to domain.SessionStatus, at time.Time) (*domain.Session, error)
	SetSessionReader(ctx context.Context, sessionID, readerID uuid.UUID) (*domain.Session, error)

	// Votes
	//
	// CreateVote returns a conflict if the voter already voted in the session.
	CreateVote(ctx context.Context, vote domain.Vote) (*domain.Vote, error)
	ListVotes(ctx context.Context, sessionID uuid.UUID) ([]domain.Vote, error)
	// ListCompletedSessionVotes returns the team's COMPLETED sessions, oldest
	// first, each with its votes in casting order.
	ListCompletedSessionVotes(ctx context.Context, teamID uuid.UUID) ([]SessionVotes, error)
}

// ResultsCache stores rendered results of completed sessions.
type ResultsCache interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, sessionID uuid.UUID, dst any) (ok bool, err error)
	Set(ctx context.Context, sessionID uuid.UUID, value any) error
	Health(ctx context.Context) error
}
