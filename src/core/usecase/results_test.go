package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thethird/src/core/domain"
	"thethird/src/infra/logger"
)

// castMatchVotes: Alice tops with 2 of 3 votes, Carol flops with 2 of 3.
func castMatchVotes(c *club, sessionID uuid.UUID) {
	b := ballot(c.alice, c.bob)
	b.TopComment = "what a save"
	b.PredictedTopID = ptr(c.alice.ID)
	b.PredictedFlopID = ptr(c.carol.ID)
	c.vote(sessionID, c.coach, b)

	c.vote(sessionID, c.alice, ballot(c.bob, c.carol))

	b = ballot(c.alice, c.carol)
	b.PredictedTopID = ptr(c.bob.ID)
	c.vote(sessionID, c.bob, b)
}

func TestResultsSealedWhileOpen(t *testing.T) {
	c := newClub(t)
	s := c.openSession()
	castMatchVotes(c, s.ID)

	_, err := c.results.Results(c.ctx, c.alice.ID, s.ID)
	assert.True(t, domain.IsConflict(err))
}

func TestResultsDuringReading(t *testing.T) {
	c := newClub(t)
	s := c.openSession()
	castMatchVotes(c, s.ID)
	_, err := c.sessions.StartReading(c.ctx, c.coach.ID, s.ID)
	require.NoError(t, err)
	_, err = c.sessions.AssignReader(c.ctx, c.coach.ID, s.ID, c.carol.ID)
	require.NoError(t, err)

	res, err := c.results.Results(c.ctx, c.bob.ID, s.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionReading, res.Status)
	assert.Equal(t, 3, res.TotalVotes)
	assert.Equal(t, "Carol", res.ReaderName)
	require.Len(t, res.Boards, 2, "optional categories without votes are omitted")

	top := res.Boards[0]
	assert.Equal(t, domain.CategoryTop, top.Category)
	require.Len(t, top.Ranking, 2)
	assert.Equal(t, "Alice", top.Ranking[0].PlayerName)
	assert.Equal(t, 2, top.Ranking[0].VoteCount)
	assert.Equal(t, 67, top.Ranking[0].Percentage)
	assert.Equal(t, 1, top.Ranking[0].Rank)
	assert.Equal(t, 33, top.Ranking[1].Percentage)
	assert.Equal(t, 2, top.Ranking[1].Rank)
	require.Len(t, top.Podium, 2)

	flop := res.Boards[1]
	assert.Equal(t, domain.CategoryFlop, flop.Category)
	assert.Equal(t, "Carol", flop.Ranking[0].PlayerName)

	require.Len(t, res.Comments, 1)
	assert.Equal(t, Comment{Category: domain.CategoryTop, PlayerID: c.alice.ID, PlayerName: "Alice", Text: "what a save"}, res.Comments[0])

	require.Len(t, res.Predictions, 2)
	byVoter := map[uuid.UUID]PredictionOutcome{}
	for _, p := range res.Predictions {
		byVoter[p.VoterID] = p
	}
	coach := byVoter[c.coach.ID]
	require.NotNil(t, coach.TopCorrect)
	require.NotNil(t, coach.FlopCorrect)
	assert.True(t, *coach.TopCorrect)
	assert.True(t, *coach.FlopCorrect)
	bob := byVoter[c.bob.ID]
	require.NotNil(t, bob.TopCorrect)
	assert.False(t, *bob.TopCorrect)
	assert.Nil(t, bob.FlopCorrect)

	assert.Zero(t, c.cache.Len(), "reading results are not final")
}

func TestResultsCachedOnceCompleted(t *testing.T) {
	c := newClub(t)
	s := c.openSession()
	castMatchVotes(c, s.ID)
	c.complete(s.ID)

	first, err := c.results.Results(c.ctx, c.alice.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.cache.Len())

	second, err := c.results.Results(c.ctx, c.alice.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Boards, second.Boards)
	assert.Equal(t, domain.SessionCompleted, second.Status)

	_, err = c.results.Results(c.ctx, c.otherTeamPlayer().ID, s.ID)
	assert.True(t, domain.IsForbidden(err), "cache does not bypass membership")
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, uuid.UUID, any) (bool, error) { return false, errors.New("down") }
func (brokenCache) Set(context.Context, uuid.UUID, any) error         { return errors.New("down") }
func (brokenCache) Health(context.Context) error                      { return errors.New("down") }

func TestResultsSurviveCacheFailure(t *testing.T) {
	c := newClub(t)
	s := c.openSession()
	castMatchVotes(c, s.ID)
	c.complete(s.ID)

	svc := NewResultsService(c.repo, brokenCache{}, logger.Discard())
	res, err := svc.Results(c.ctx, c.alice.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalVotes)
}

func TestResultsWithoutVotes(t *testing.T) {
	c := newClub(t)
	s := c.playSession(nil)

	res, err := c.results.Results(c.ctx, c.alice.ID, s.ID)
	require.NoError(t, err)
	assert.Zero(t, res.TotalVotes)
	assert.Empty(t, res.Boards)
	assert.Empty(t, res.Comments)
	assert.Empty(t, res.Predictions)
}

func TestHealthService(t *testing.T) {
	c := newClub(t)

	ok := NewHealthService(c.repo, nil, logger.Discard()).Check(c.ctx)
	assert.Equal(t, "ok", ok.Status)
	assert.NotContains(t, ok.Components, "cache")

	degraded := NewHealthService(c.repo, brokenCache{}, logger.Discard()).Check(c.ctx)
	assert.Equal(t, "degraded", degraded.Status)
	assert.Equal(t, "unhealthy", degraded.Components["cache"].Status)
}
