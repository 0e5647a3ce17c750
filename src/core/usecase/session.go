package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"thethird/src/core/domain"
	"thethird/src/core/ports"
)

// SessionService runs the voting session lifecycle.
type SessionService struct {
	repo ports.VotingRepository
	log  *slog.Logger
}

func NewSessionService(repo ports.VotingRepository, log *slog.Logger) *SessionService {
	return &SessionService{repo: repo, log: log.With("component", "session")}
}

// SessionDetail is a session with its match.
type SessionDetail struct {
	Session *domain.Session
	Match   *domain.Match
}

// Get returns a session of the caller's team.
func (s *SessionService) Get(ctx context.Context, callerID, sessionID uuid.UUID) (*SessionDetail, error) {
	session, err := s.loadForMember(ctx, callerID, sessionID)
	if err != nil {
		return nil, err
	}
	match, err := s.repo.GetMatch(ctx, session.MatchID)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{Session: session, Match: match}, nil
}

// List returns the team's sessions, newest first.
func (s *SessionService) List(ctx context.Context, callerID, teamID uuid.UUID, status *domain.SessionStatus) ([]domain.Session, error) {
	if status != nil && !status.Valid() {
		return nil, domain.NewValidationError("status", "unknown session status")
	}
	if _, err := requireMember(ctx, s.repo, callerID, teamID); err != nil {
		return nil, err
	}
	return s.repo.ListSessions(ctx, teamID, ports.SessionFilter{Status: status})
}

// StartReading closes voting and opens the reading phase.
func (s *SessionService) StartReading(ctx context.Context, callerID, sessionID uuid.UUID) (*domain.Session, error) {
	return s.advance(ctx, callerID, sessionID, domain.SessionOpen)
}

// Complete ends the reading phase; results become final.
func (s *SessionService) Complete(ctx context.Context, callerID, sessionID uuid.UUID) (*domain.Session, error) {
	return s.advance(ctx, callerID, sessionID, domain.SessionReading)
}

func (s *SessionService) advance(ctx context.Context, callerID, sessionID uuid.UUID, from domain.SessionStatus) (*domain.Session, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := requireManager(ctx, s.repo, callerID, session.TeamID); err != nil {
		return nil, err
	}
	to, _ := from.Next()
	if session.Status != from {
		return nil, domain.NewConflictError(fmt.Sprintf("session is %s, expected %s", session.Status, from))
	}

	updated, err := s.repo.TransitionSession(ctx, sessionID, from, to, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info("session status changed", "session_id", sessionID, "from", from, "to", to)
	return updated, nil
}

// AssignReader picks the player who reads the comments aloud.
func (s *SessionService) AssignReader(ctx context.Context, callerID, sessionID, readerID uuid.UUID) (*domain.Session, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := requireManager(ctx, s.repo, callerID, session.TeamID); err != nil {
		return nil, err
	}
	if session.Status == domain.SessionCompleted {
		return nil, domain.NewConflictError("session already completed")
	}

	reader, err := s.repo.GetPlayer(ctx, readerID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewValidationError("player_id", "unknown player")
		}
		return nil, err
	}
	if reader.TeamID != session.TeamID {
		return nil, domain.NewValidationError("player_id", "reader must belong to the team")
	}

	updated, err := s.repo.SetSessionReader(ctx, sessionID, readerID)
	if err != nil {
		return nil, err
	}
	s.log.Info("reader assigned", "session_id", sessionID, "reader_id", readerID)
	return updated, nil
}

// Progress reports how many team members voted so far.
type Progress struct {
	SessionID uuid.UUID
	Status    domain.SessionStatus
	Votes     int
	Members   int
	Voted     []uuid.UUID
	Pending   []uuid.UUID
}

// Progress counts votes cast in a session against the roster.
func (s *SessionService) Progress(ctx context.Context, callerID, sessionID uuid.UUID) (*Progress, error) {
	session, err := s.loadForMember(ctx, callerID, sessionID)
	if err != nil {
		return nil, err
	}
	votes, err := s.repo.ListVotes(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	roster, err := s.repo.ListPlayers(ctx, session.TeamID)
	if err != nil {
		return nil, err
	}

	voted := make(map[uuid.UUID]bool, len(votes))
	for _, v := range votes {
		voted[v.VoterID] = true
	}
	p := &Progress{
		SessionID: session.ID,
		Status:    session.Status,
		Votes:     len(votes),
		Members:   len(roster),
		Voted:     []uuid.UUID{},
		Pending:   []uuid.UUID{},
	}
	for _, player := range roster {
		if voted[player.ID] {
			p.Voted = append(p.Voted, player.ID)
		} else {
			p.Pending = append(p.Pending, player.ID)
		}
	}
	return p, nil
}

func (s *SessionService) loadForMember(ctx context.Context, callerID, sessionID uuid.UUID) (*domain.Session, error) {
	return loadSessionForMember(ctx, s.repo, callerID, sessionID)
}

func loadSessionForMember(ctx context.Context, repo ports.VotingRepository, callerID, sessionID uuid.UUID) (*domain.Session, error) {
	session, err := repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, repo, callerID, session.TeamID); err != nil {
		return nil, err
	}
	return session, nil
}
