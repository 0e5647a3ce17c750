package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"thethird/src/core/domain"
	"thethird/src/infra/cache"
	"thethird/src/infra/logger"
	"thethird/src/infra/repo"
)

// club is a team with a manager (Coach) and three members.
type club struct {
	t     *testing.T
	ctx   context.Context
	repo  *repo.MemoryRepository
	cache *cache.Memory

	teams    *TeamService
	sessions *SessionService
	votes    *VoteService
	results  *ResultsService
	stats    *StatsService

	team                     *domain.Team
	coach, alice, bob, carol *domain.Player
}

func newClub(t *testing.T) *club {
	t.Helper()
	log := logger.Discard()
	store := repo.NewMemoryRepository(log)
	c := &club{
		t:        t,
		ctx:      context.Background(),
		repo:     store,
		cache:    cache.NewMemory(),
		teams:    NewTeamService(store, log),
		sessions: NewSessionService(store, log),
		votes:    NewVoteService(store, log),
		stats:    NewStatsService(store, log),
	}
	c.results = NewResultsService(store, c.cache, log)

	res, err := c.teams.CreateTeam(c.ctx, "FC Third", "Coach")
	require.NoError(t, err)
	c.team, c.coach = res.Team, res.Manager
	c.alice = c.addPlayer("Alice")
	c.bob = c.addPlayer("Bob")
	c.carol = c.addPlayer("Carol")
	return c
}

func (c *club) addPlayer(name string) *domain.Player {
	c.t.Helper()
	p, err := c.teams.AddPlayer(c.ctx, c.coach.ID, c.team.ID, name)
	require.NoError(c.t, err)
	return p
}

func (c *club) openSession() *domain.Session {
	c.t.Helper()
	res, err := c.teams.CreateMatch(c.ctx, c.coach.ID, c.team.ID, "Rovers", time.Time{})
	require.NoError(c.t, err)
	return res.Session
}

func (c *club) vote(sessionID uuid.UUID, voter *domain.Player, b Ballot) {
	c.t.Helper()
	_, err := c.votes.Cast(c.ctx, voter.ID, sessionID, b)
	require.NoError(c.t, err)
}

func (c *club) complete(sessionID uuid.UUID) {
	c.t.Helper()
	_, err := c.sessions.StartReading(c.ctx, c.coach.ID, sessionID)
	require.NoError(c.t, err)
	_, err = c.sessions.Complete(c.ctx, c.coach.ID, sessionID)
	require.NoError(c.t, err)
}

// playSession opens a session, lets each voter name top and flop, and completes it.
func (c *club) playSession(ballots map[*domain.Player]Ballot) *domain.Session {
	c.t.Helper()
	s := c.openSession()
	for voter, b := range ballots {
		c.vote(s.ID, voter, b)
	}
	c.complete(s.ID)
	return s
}

func ballot(top, flop *domain.Player) Ballot {
	return Ballot{TopPlayerID: top.ID, FlopPlayerID: flop.ID}
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }

// otherTeamPlayer creates a second team and returns its manager.
func (c *club) otherTeamPlayer() *domain.Player {
	c.t.Helper()
	res, err := c.teams.CreateTeam(c.ctx, "Rivals", "Boss")
	require.NoError(c.t, err)
	return res.Manager
}
