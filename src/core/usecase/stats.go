package usecase

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"thethird/src/core/domain"
	"thethird/src/core/ports"
	"thethird/src/core/ranking"
)

// StatsService derives team statistics from completed sessions.
type StatsService struct {
	repo ports.VotingRepository
	log  *slog.Logger
}

func NewStatsService(repo ports.VotingRepository, log *slog.Logger) *StatsService {
	return &StatsService{repo: repo, log: log.With("component", "stats")}
}

// LeaderboardEntry is a ranked player with the number of sessions they won.
type LeaderboardEntry struct {
	ranking.Entry
	Titles int `json:"titles"`
}

// Leaderboard ranks players by votes received in one category.
type Leaderboard struct {
	Category   domain.Category    `json:"category"`
	Sessions   int                `json:"sessions"`
	TotalVotes int                `json:"total_votes"`
	Entries    []LeaderboardEntry `json:"entries"`
}

// Leaderboard aggregates a category over every completed session of the team.
func (s *StatsService) Leaderboard(ctx context.Context, callerID, teamID uuid.UUID, c domain.Category) (*Leaderboard, error) {
	history, names, err := s.load(ctx, callerID, teamID)
	if err != nil {
		return nil, err
	}

	var nominees []uuid.UUID
	titles := make(map[uuid.UUID]int)
	for _, sv := range history {
		board := ranking.BuildBoard(sv.Votes, c, names)
		for _, id := range ranking.Leaders(board.Ranking) {
			titles[id]++
		}
		nominees = append(nominees, ranking.Nominees(sv.Votes, c)...)
	}

	lb := &Leaderboard{
		Category:   c,
		Sessions:   len(history),
		TotalVotes: len(nominees),
		Entries:    []LeaderboardEntry{},
	}
	for _, e := range ranking.Rank(nominees, names, ranking.WithTieBreak(ranking.ByName)) {
		lb.Entries = append(lb.Entries, LeaderboardEntry{Entry: e, Titles: titles[e.PlayerID]})
	}
	return lb, nil
}

// PredictionRecord is a voter's prediction accuracy.
type PredictionRecord struct {
	Rank       int       `json:"rank"`
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Made       int       `json:"made"`
	Correct    int       `json:"correct"`
	Accuracy   int       `json:"accuracy"`
}

// Predictions ranks voters by correct Top/Flop predictions.
func (s *StatsService) Predictions(ctx context.Context, callerID, teamID uuid.UUID) ([]PredictionRecord, error) {
	history, names, err := s.load(ctx, callerID, teamID)
	if err != nil {
		return nil, err
	}

	byVoter := make(map[uuid.UUID]*PredictionRecord)
	for _, sv := range history {
		leaders := leadersOf(sessionBoards(sv.Votes, names))
		for _, v := range sv.Votes {
			made, correct := predictionScore(v, leaders)
			if made == 0 {
				continue
			}
			rec, ok := byVoter[v.VoterID]
			if !ok {
				rec = &PredictionRecord{PlayerID: v.VoterID, PlayerName: nameOf(names, v.VoterID)}
				byVoter[v.VoterID] = rec
			}
			rec.Made += made
			rec.Correct += correct
		}
	}

	records := make([]PredictionRecord, 0, len(byVoter))
	for _, rec := range byVoter {
		rec.Accuracy = ranking.Percentage(rec.Correct, rec.Made)
		records = append(records, *rec)
	}
	slices.SortFunc(records, func(a, b PredictionRecord) int {
		if n := cmp.Compare(b.Correct, a.Correct); n != 0 {
			return n
		}
		if n := cmp.Compare(b.Accuracy, a.Accuracy); n != 0 {
			return n
		}
		return strings.Compare(strings.ToLower(a.PlayerName), strings.ToLower(b.PlayerName))
	})
	ranks := ranking.CompetitionRanks(len(records), func(i int) bool {
		return records[i].Correct == records[i-1].Correct
	})
	for i := range records {
		records[i].Rank = ranks[i]
	}
	return records, nil
}

// predictionScore counts the predictions in v and how many named a category leader.
func predictionScore(v domain.Vote, leaders map[domain.Category]map[uuid.UUID]bool) (made, correct int) {
	for _, c := range []domain.Category{domain.CategoryTop, domain.CategoryFlop} {
		id, ok := v.Prediction(c)
		if !ok {
			continue
		}
		made++
		if leaders[c][id] {
			correct++
		}
	}
	return made, correct
}

// Badge is an achievement earned by a player.
type Badge struct {
	Code     string    `json:"code"`
	Label    string    `json:"label"`
	EarnedAt uuid.UUID `json:"earned_at_session"`
}

type badgeProgress struct {
	topTitles          int
	topStreak          int
	bestTopStreak      int
	flopTitles         int
	correctPredictions int
	sessionsVoted      int
}

var badgeRules = []struct {
	code   string
	label  string
	earned func(p badgeProgress) bool
}{
	{"FIRST_TOP", "First Top", func(p badgeProgress) bool { return p.topTitles >= 1 }},
	{"HAT_TRICK", "Hat-trick", func(p badgeProgress) bool { return p.bestTopStreak >= 3 }},
	{"CROWD_FAVOURITE", "Crowd favourite", func(p badgeProgress) bool { return p.topTitles >= 5 }},
	{"FLOP_MAGNET", "Flop magnet", func(p badgeProgress) bool { return p.flopTitles >= 3 }},
	{"ORACLE", "Oracle", func(p badgeProgress) bool { return p.correctPredictions >= 5 }},
	{"ASSIDUOUS", "Assiduous", func(p badgeProgress) bool { return p.sessionsVoted >= 10 }},
}

// Badges replays the team's completed sessions in order and returns the
// badges the player earned, each with the session that unlocked it.
func (s *StatsService) Badges(ctx context.Context, callerID, teamID, playerID uuid.UUID) ([]Badge, error) {
	history, names, err := s.load(ctx, callerID, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTeamPlayer(ctx, teamID, playerID); err != nil {
		return nil, err
	}

	var p badgeProgress
	earned := make(map[string]bool)
	badges := []Badge{}
	for _, sv := range history {
		boards := sessionBoards(sv.Votes, names)
		leaders := leadersOf(boards)

		if leaders[domain.CategoryTop][playerID] {
			p.topTitles++
			p.topStreak++
		} else {
			p.topStreak = 0
		}
		p.bestTopStreak = max(p.bestTopStreak, p.topStreak)
		if leaders[domain.CategoryFlop][playerID] {
			p.flopTitles++
		}
		for _, v := range sv.Votes {
			if v.VoterID != playerID {
				continue
			}
			p.sessionsVoted++
			_, correct := predictionScore(v, leaders)
			p.correctPredictions += correct
		}

		for _, rule := range badgeRules {
			if earned[rule.code] || !rule.earned(p) {
				continue
			}
			earned[rule.code] = true
			badges = append(badges, Badge{Code: rule.code, Label: rule.label, EarnedAt: sv.Session.ID})
		}
	}
	return badges, nil
}

// Rivalries lists who votes for a player and whom the player votes for.
// Each list is cut to its podium.
type Rivalries struct {
	PlayerID   uuid.UUID       `json:"player_id"`
	PlayerName string          `json:"player_name"`
	Fans       []ranking.Entry `json:"fans"`
	Critics    []ranking.Entry `json:"critics"`
	Favourites []ranking.Entry `json:"favourites"`
	Targets    []ranking.Entry `json:"targets"`
}

// Rivalries computes the player's rivalries over completed sessions.
func (s *StatsService) Rivalries(ctx context.Context, callerID, teamID, playerID uuid.UUID) (*Rivalries, error) {
	history, names, err := s.load(ctx, callerID, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTeamPlayer(ctx, teamID, playerID); err != nil {
		return nil, err
	}

	var fans, critics, favourites, targets []uuid.UUID
	for _, sv := range history {
		for _, v := range sv.Votes {
			if v.TopPlayerID == playerID {
				fans = append(fans, v.VoterID)
			}
			if v.FlopPlayerID == playerID {
				critics = append(critics, v.VoterID)
			}
			if v.VoterID == playerID {
				favourites = append(favourites, v.TopPlayerID)
				targets = append(targets, v.FlopPlayerID)
			}
		}
	}

	podium := func(ids []uuid.UUID) []ranking.Entry {
		out := []ranking.Entry{}
		for _, step := range ranking.Podium(ranking.Rank(ids, names, ranking.WithTieBreak(ranking.ByName))) {
			out = append(out, step.Entries...)
		}
		return out
	}
	return &Rivalries{
		PlayerID:   playerID,
		PlayerName: nameOf(names, playerID),
		Fans:       podium(fans),
		Critics:    podium(critics),
		Favourites: podium(favourites),
		Targets:    podium(targets),
	}, nil
}

func (s *StatsService) load(ctx context.Context, callerID, teamID uuid.UUID) ([]ports.SessionVotes, ranking.NameLookup, error) {
	if _, err := requireMember(ctx, s.repo, callerID, teamID); err != nil {
		return nil, nil, err
	}
	history, err := s.repo.ListCompletedSessionVotes(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	roster, err := s.repo.ListPlayers(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	s.log.Debug("stats history loaded", "team_id", teamID, "sessions", len(history))
	return history, ranking.NamesFromPlayers(roster), nil
}

func (s *StatsService) requireTeamPlayer(ctx context.Context, teamID, playerID uuid.UUID) error {
	player, err := s.repo.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	if player.TeamID != teamID {
		return domain.NewNotFoundError("player")
	}
	return nil
}
