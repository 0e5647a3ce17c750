package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"thethird/src/core/domain"
	"thethird/src/core/ports"
)

// VoteService handles ballot casting.
type VoteService struct {
	repo ports.VotingRepository
	log  *slog.Logger
}

func NewVoteService(repo ports.VotingRepository, log *slog.Logger) *VoteService {
	return &VoteService{repo: repo, log: log.With("component", "vote")}
}

// Ballot is what a voter submits.
type Ballot struct {
	TopPlayerID         uuid.UUID
	TopComment          string
	FlopPlayerID        uuid.UUID
	FlopComment         string
	PredictedTopID      *uuid.UUID
	PredictedFlopID     *uuid.UUID
	BestActionPlayerID  *uuid.UUID
	WorstActionPlayerID *uuid.UUID
}

// Cast records the caller's vote in an open session.
func (s *VoteService) Cast(ctx context.Context, callerID, sessionID uuid.UUID, b Ballot) (*domain.Vote, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.repo, callerID, session.TeamID); err != nil {
		return nil, err
	}
	if session.Status != domain.SessionOpen {
		return nil, domain.NewConflictError("voting is closed for this session")
	}

	vote, err := s.validate(ctx, session, b)
	if err != nil {
		return nil, err
	}
	vote.SessionID = sessionID
	vote.VoterID = callerID

	created, err := s.repo.CreateVote(ctx, *vote)
	if err != nil {
		if domain.IsConflict(err) {
			s.log.Warn("duplicate vote rejected", "session_id", sessionID, "voter_id", callerID)
		}
		return nil, err
	}
	s.log.Info("vote cast", "session_id", sessionID, "voter_id", callerID)
	return created, nil
}

func (s *VoteService) validate(ctx context.Context, session *domain.Session, b Ballot) (*domain.Vote, error) {
	if b.TopPlayerID == uuid.Nil {
		return nil, domain.NewValidationError("top_player_id", "required")
	}
	if b.FlopPlayerID == uuid.Nil {
		return nil, domain.NewValidationError("flop_player_id", "required")
	}
	if b.TopPlayerID == b.FlopPlayerID {
		return nil, domain.NewValidationError("flop_player_id", "top and flop must be different players")
	}

	topComment, err := cleanComment("top_comment", b.TopComment)
	if err != nil {
		return nil, err
	}
	flopComment, err := cleanComment("flop_comment", b.FlopComment)
	if err != nil {
		return nil, err
	}

	roster, err := s.repo.ListPlayers(ctx, session.TeamID)
	if err != nil {
		return nil, err
	}
	members := make(map[uuid.UUID]bool, len(roster))
	for _, p := range roster {
		members[p.ID] = true
	}

	nominees := []struct {
		field string
		id    *uuid.UUID
	}{
		{"top_player_id", &b.TopPlayerID},
		{"flop_player_id", &b.FlopPlayerID},
		{"predicted_top_id", b.PredictedTopID},
		{"predicted_flop_id", b.PredictedFlopID},
		{"best_action_player_id", b.BestActionPlayerID},
		{"worst_action_player_id", b.WorstActionPlayerID},
	}
	for _, n := range nominees {
		if n.id == nil || *n.id == uuid.Nil {
			continue
		}
		if !members[*n.id] {
			return nil, domain.NewValidationError(n.field, "player is not a member of this team")
		}
	}

	return &domain.Vote{
		TopPlayerID:         b.TopPlayerID,
		TopComment:          topComment,
		FlopPlayerID:        b.FlopPlayerID,
		FlopComment:         flopComment,
		PredictedTopID:      nonNil(b.PredictedTopID),
		PredictedFlopID:     nonNil(b.PredictedFlopID),
		BestActionPlayerID:  nonNil(b.BestActionPlayerID),
		WorstActionPlayerID: nonNil(b.WorstActionPlayerID),
	}, nil
}

func nonNil(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	v := *id
	return &v
}
