package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"thethird/src/core/domain"
	"thethird/src/core/ports"
)

// TeamService handles teams, rosters and match creation.
type TeamService struct {
	repo ports.VotingRepository
	log  *slog.Logger
}

func NewTeamService(repo ports.VotingRepository, log *slog.Logger) *TeamService {
	return &TeamService{repo: repo, log: log.With("component", "team")}
}

// CreateTeamResult is the bootstrapped team with its first manager.
type CreateTeamResult struct {
	Team    *domain.Team
	Manager *domain.Player
}

// CreateTeam registers a team together with the manager who created it.
func (s *TeamService) CreateTeam(ctx context.Context, name, managerName string) (*CreateTeamResult, error) {
	name, err := cleanName("name", name, maxDisplayNameLen)
	if err != nil {
		return nil, err
	}
	managerName, err = cleanName("manager_name", managerName, maxDisplayNameLen)
	if err != nil {
		return nil, err
	}

	team, manager, err := s.repo.CreateTeam(ctx, name, managerName)
	if err != nil {
		return nil, err
	}
	s.log.Info("team created", "team_id", team.ID, "manager_id", manager.ID)
	return &CreateTeamResult{Team: team, Manager: manager}, nil
}

// AddPlayer adds a member to the roster. Display names are unique per team,
// case-insensitively.
func (s *TeamService) AddPlayer(ctx context.Context, callerID, teamID uuid.UUID, displayName string) (*domain.Player, error) {
	if _, err := requireManager(ctx, s.repo, callerID, teamID); err != nil {
		return nil, err
	}
	displayName, err := cleanName("display_name", displayName, maxDisplayNameLen)
	if err != nil {
		return nil, err
	}

	roster, err := s.repo.ListPlayers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	for _, p := range roster {
		if strings.EqualFold(p.DisplayName, displayName) {
			return nil, domain.NewConflictError("display name already taken")
		}
	}

	player, err := s.repo.CreatePlayer(ctx, teamID, displayName, domain.RoleMember)
	if err != nil {
		return nil, err
	}
	s.log.Info("player added", "team_id", teamID, "player_id", player.ID)
	return player, nil
}

// ListPlayers returns the roster of the caller's team.
func (s *TeamService) ListPlayers(ctx context.Context, callerID, teamID uuid.UUID) ([]domain.Player, error) {
	if _, err := requireMember(ctx, s.repo, callerID, teamID); err != nil {
		return nil, err
	}
	return s.repo.ListPlayers(ctx, teamID)
}

// CreateMatchResult is a new match with its freshly opened session.
type CreateMatchResult struct {
	Match   *domain.Match
	Session *domain.Session
}

// CreateMatch records a match and opens its voting session.
func (s *TeamService) CreateMatch(ctx context.Context, callerID, teamID uuid.UUID, opponent string, playedAt time.Time) (*CreateMatchResult, error) {
	if _, err := requireManager(ctx, s.repo, callerID, teamID); err != nil {
		return nil, err
	}
	opponent, err := cleanName("opponent", opponent, maxOpponentLen)
	if err != nil {
		return nil, err
	}
	if playedAt.IsZero() {
		playedAt = time.Now().UTC()
	}

	match, session, err := s.repo.CreateMatchSession(ctx, teamID, opponent, playedAt)
	if err != nil {
		return nil, err
	}
	s.log.Info("voting session opened", "team_id", teamID, "match_id", match.ID, "session_id", session.ID)
	return &CreateMatchResult{Match: match, Session: session}, nil
}
