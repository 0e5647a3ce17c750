package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"thethird/src/core/domain"
	"thethird/src/core/ports"
	"thethird/src/core/ranking"
)

// ResultsService builds session podiums.
type ResultsService struct {
	repo  ports.VotingRepository
	cache ports.ResultsCache
	log   *slog.Logger
}

func NewResultsService(repo ports.VotingRepository, cache ports.ResultsCache, log *slog.Logger) *ResultsService {
	return &ResultsService{repo: repo, cache: cache, log: log.With("component", "results")}
}

// Comment is an anonymous comment read aloud during the reading phase.
type Comment struct {
	Category   domain.Category `json:"category"`
	PlayerID   uuid.UUID       `json:"player_id"`
	PlayerName string          `json:"player_name"`
	Text       string          `json:"text"`
}

// PredictionOutcome tells whether a voter guessed the Top and Flop winners.
// Correct flags are nil when the voter made no prediction.
type PredictionOutcome struct {
	VoterID         uuid.UUID  `json:"voter_id"`
	VoterName       string     `json:"voter_name"`
	PredictedTopID  *uuid.UUID `json:"predicted_top_id,omitempty"`
	TopCorrect      *bool      `json:"predicted_top_correct,omitempty"`
	PredictedFlopID *uuid.UUID `json:"predicted_flop_id,omitempty"`
	FlopCorrect     *bool      `json:"predicted_flop_correct,omitempty"`
}

// SessionResults is everything the results page shows.
type SessionResults struct {
	SessionID   uuid.UUID            `json:"session_id"`
	Status      domain.SessionStatus `json:"status"`
	ReaderID    *uuid.UUID           `json:"reader_id"`
	ReaderName  string               `json:"reader_name,omitempty"`
	TotalVotes  int                  `json:"total_votes"`
	Boards      []ranking.Board      `json:"boards"`
	Comments    []Comment            `json:"comments"`
	Predictions []PredictionOutcome  `json:"predictions"`
}

// Results returns the podiums of a session. Open sessions are sealed.
func (s *ResultsService) Results(ctx context.Context, callerID, sessionID uuid.UUID) (*SessionResults, error) {
	session, err := loadSessionForMember(ctx, s.repo, callerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.SessionOpen {
		return nil, domain.NewConflictError("voting still open")
	}

	final := session.Status == domain.SessionCompleted
	if final {
		var cached SessionResults
		ok, err := s.cache.Get(ctx, sessionID, &cached)
		if err != nil {
			s.log.Warn("results cache read failed", "session_id", sessionID, "error", err)
		} else if ok {
			return &cached, nil
		}
	}

	votes, err := s.repo.ListVotes(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	roster, err := s.repo.ListPlayers(ctx, session.TeamID)
	if err != nil {
		return nil, err
	}
	res := buildResults(session, votes, roster)

	if final {
		if err := s.cache.Set(ctx, sessionID, res); err != nil {
			s.log.Warn("results cache write failed", "session_id", sessionID, "error", err)
		}
	}
	return res, nil
}

func buildResults(session *domain.Session, votes []domain.Vote, roster []domain.Player) *SessionResults {
	names := ranking.NamesFromPlayers(roster)
	res := &SessionResults{
		SessionID:   session.ID,
		Status:      session.Status,
		ReaderID:    session.ReaderID,
		TotalVotes:  len(votes),
		Boards:      []ranking.Board{},
		Comments:    []Comment{},
		Predictions: []PredictionOutcome{},
	}
	if session.ReaderID != nil {
		res.ReaderName = nameOf(names, *session.ReaderID)
	}

	boards := sessionBoards(votes, names)
	for _, c := range domain.Categories {
		if b := boards[c]; !b.Empty() {
			res.Boards = append(res.Boards, b)
		}
	}

	for _, v := range votes {
		if v.TopComment != "" {
			res.Comments = append(res.Comments, Comment{domain.CategoryTop, v.TopPlayerID, nameOf(names, v.TopPlayerID), v.TopComment})
		}
		if v.FlopComment != "" {
			res.Comments = append(res.Comments, Comment{domain.CategoryFlop, v.FlopPlayerID, nameOf(names, v.FlopPlayerID), v.FlopComment})
		}
	}

	leaders := leadersOf(boards)
	for _, v := range votes {
		out := PredictionOutcome{VoterID: v.VoterID, VoterName: nameOf(names, v.VoterID)}
		if id, ok := v.Prediction(domain.CategoryTop); ok {
			hit := leaders[domain.CategoryTop][id]
			out.PredictedTopID, out.TopCorrect = &id, &hit
		}
		if id, ok := v.Prediction(domain.CategoryFlop); ok {
			hit := leaders[domain.CategoryFlop][id]
			out.PredictedFlopID, out.FlopCorrect = &id, &hit
		}
		if out.PredictedTopID != nil || out.PredictedFlopID != nil {
			res.Predictions = append(res.Predictions, out)
		}
	}
	return res
}

// sessionBoards ranks every category of one session. Ties are shown
// alphabetically so the display order does not depend on vote order.
func sessionBoards(votes []domain.Vote, names ranking.NameLookup) map[domain.Category]ranking.Board {
	boards := make(map[domain.Category]ranking.Board, len(domain.Categories))
	for _, c := range domain.Categories {
		boards[c] = ranking.BuildBoard(votes, c, names, ranking.WithTieBreak(ranking.ByName))
	}
	return boards
}

// leadersOf returns, per category, the set of rank-1 players.
func leadersOf(boards map[domain.Category]ranking.Board) map[domain.Category]map[uuid.UUID]bool {
	out := make(map[domain.Category]map[uuid.UUID]bool, len(boards))
	for c, b := range boards {
		set := make(map[uuid.UUID]bool)
		for _, id := range ranking.Leaders(b.Ranking) {
			set[id] = true
		}
		out[c] = set
	}
	return out
}

func nameOf(names ranking.NameLookup, id uuid.UUID) string {
	if name, ok := names(id); ok {
		return name
	}
	return ranking.UnknownPlayer
}
