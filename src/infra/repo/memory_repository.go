package repo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"thethird/src/core/domain"
	"thethird/src/core/ports"
)

// MemoryRepository implements VotingRepository in process memory.
// It mirrors the constraints of the Postgres schema (unique display names
// per team, one vote per voter and session, one session in progress per
// team) and is used for local runs and tests.
type MemoryRepository struct {
	mu  sync.RWMutex
	log *slog.Logger
	now func() time.Time

	teams    map[uuid.UUID]domain.Team
	players  []domain.Player
	matches  map[uuid.UUID]domain.Match
	sessions []domain.Session
	votes    []domain.Vote
}

var _ ports.VotingRepository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository(log *slog.Logger) *MemoryRepository {
	return &MemoryRepository{
		log:     log.With("component", "memory_repository"),
		now:     func() time.Time { return time.Now().UTC() },
		teams:   make(map[uuid.UUID]domain.Team),
		matches: make(map[uuid.UUID]domain.Match),
	}
}

func (r *MemoryRepository) Health(context.Context) error {
	return nil
}

func (r *MemoryRepository) CreateTeam(_ context.Context, name, managerName string) (*domain.Team, *domain.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team := domain.Team{ID: uuid.New(), Name: name, CreatedAt: r.now()}
	r.teams[team.ID] = team
	manager, err := r.insertPlayerLocked(team.ID, managerName, domain.RoleManager)
	if err != nil {
		delete(r.teams, team.ID)
		return nil, nil, err
	}
	r.log.Debug("team stored", "team_id", team.ID)
	return &team, manager, nil
}

func (r *MemoryRepository) GetTeam(_ context.Context, teamID uuid.UUID) (*domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.teams[teamID]
	if !ok {
		return nil, domain.NewNotFoundError("team")
	}
	return &team, nil
}

func (r *MemoryRepository) CreatePlayer(_ context.Context, teamID uuid.UUID, displayName string, role domain.Role) (*domain.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertPlayerLocked(teamID, displayName, role)
}

func (r *MemoryRepository) insertPlayerLocked(teamID uuid.UUID, displayName string, role domain.Role) (*domain.Player, error) {
	if _, ok := r.teams[teamID]; !ok {
		return nil, domain.NewNotFoundError("team")
	}
	for _, p := range r.players {
		if p.TeamID == teamID && strings.EqualFold(p.DisplayName, displayName) {
			return nil, domain.NewConflictError("display name already taken")
		}
	}
	p := domain.Player{ID: uuid.New(), TeamID: teamID, DisplayName: displayName, Role: role, CreatedAt: r.now()}
	r.players = append(r.players, p)
	return &p, nil
}

func (r *MemoryRepository) GetPlayer(_ context.Context, playerID uuid.UUID) (*domain.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.players {
		if p.ID == playerID {
			return &p, nil
		}
	}
	return nil, domain.NewNotFoundError("player")
}

func (r *MemoryRepository) ListPlayers(_ context.Context, teamID uuid.UUID) ([]domain.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := []domain.Player{}
	for _, p := range r.players {
		if p.TeamID == teamID {
			players = append(players, p)
		}
	}
	return players, nil
}

func (r *MemoryRepository) CreateMatchSession(_ context.Context, teamID uuid.UUID, opponent string, playedAt time.Time) (*domain.Match, *domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.teams[teamID]; !ok {
		return nil, nil, domain.NewNotFoundError("team")
	}
	for _, s := range r.sessions {
		if s.TeamID == teamID && s.Status != domain.SessionCompleted {
			return nil, nil, domain.NewConflictError("team already has a session in progress")
		}
	}

	now := r.now()
	match := domain.Match{ID: uuid.New(), TeamID: teamID, Opponent: opponent, PlayedAt: playedAt, CreatedAt: now}
	session := domain.Session{ID: uuid.New(), TeamID: teamID, MatchID: match.ID, Status: domain.SessionOpen, OpenedAt: now}
	r.matches[match.ID] = match
	r.sessions = append(r.sessions, session)
	return &match, &session, nil
}

func (r *MemoryRepository) GetMatch(_ context.Context, matchID uuid.UUID) (*domain.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.matches[matchID]
	if !ok {
		return nil, domain.NewNotFoundError("match")
	}
	return &m, nil
}

func (r *MemoryRepository) GetSession(_ context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.sessionIndexLocked(sessionID)
	if i < 0 {
		return nil, domain.NewNotFoundError("session")
	}
	s := r.sessions[i]
	return &s, nil
}

func (r *MemoryRepository) sessionIndexLocked(sessionID uuid.UUID) int {
	for i, s := range r.sessions {
		if s.ID == sessionID {
			return i
		}
	}
	return -1
}

// ListSessions returns newest first; sessions are stored in creation order.
func (r *MemoryRepository) ListSessions(_ context.Context, teamID uuid.UUID, filter ports.SessionFilter) ([]domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := []domain.Session{}
	for i := len(r.sessions) - 1; i >= 0; i-- {
		s := r.sessions[i]
		if s.TeamID != teamID {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (r *MemoryRepository) TransitionSession(_ context.Context, sessionID uuid.UUID, from, to domain.SessionStatus, at time.Time) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.sessionIndexLocked(sessionID)
	if i < 0 {
		return nil, domain.NewNotFoundError("session")
	}
	s := &r.sessions[i]
	if s.Status != from {
		return nil, domain.NewConflictError(fmt.Sprintf("session is no longer %s", from))
	}
	s.Status = to
	switch to {
	case domain.SessionReading:
		s.ReadingAt = &at
	case domain.SessionCompleted:
		s.CompletedAt = &at
	}
	out := *s
	return &out, nil
}

func (r *MemoryRepository) SetSessionReader(_ context.Context, sessionID, readerID uuid.UUID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.sessionIndexLocked(sessionID)
	if i < 0 {
		return nil, domain.NewNotFoundError("session")
	}
	reader := readerID
	r.sessions[i].ReaderID = &reader
	out := r.sessions[i]
	return &out, nil
}

func (r *MemoryRepository) CreateVote(_ context.Context, vote domain.Vote) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessionIndexLocked(vote.SessionID) < 0 {
		return nil, domain.NewNotFoundError("session")
	}
	for _, v := range r.votes {
		if v.SessionID == vote.SessionID && v.VoterID == vote.VoterID {
			return nil, domain.NewConflictError("player already voted in this session")
		}
	}
	vote.ID = uuid.New()
	vote.CreatedAt = r.now()
	r.votes = append(r.votes, vote)
	return &vote, nil
}

func (r *MemoryRepository) ListVotes(_ context.Context, sessionID uuid.UUID) ([]domain.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.votesLocked(sessionID), nil
}

func (r *MemoryRepository) votesLocked(sessionID uuid.UUID) []domain.Vote {
	votes := []domain.Vote{}
	for _, v := range r.votes {
		if v.SessionID == sessionID {
			votes = append(votes, v)
		}
	}
	return votes
}

func (r *MemoryRepository) ListCompletedSessionVotes(_ context.Context, teamID uuid.UUID) ([]ports.SessionVotes, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []ports.SessionVotes{}
	for _, s := range r.sessions {
		if s.TeamID != teamID || s.Status != domain.SessionCompleted {
			continue
		}
		out = append(out, ports.SessionVotes{Session: s, Votes: r.votesLocked(s.ID)})
	}
	return out, nil
}
