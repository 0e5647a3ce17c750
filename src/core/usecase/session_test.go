package usecase

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thethird/src/core/domain"
)

func TestSessionLifecycle(t *testing.T) {
	c := newClub(t)
	s := c.openSession()

	_, err := c.sessions.Complete(c.ctx, c.coach.ID, s.ID)
	assert.True(t, domain.IsConflict(err), "cannot skip the reading phase")

	_, err = c.sessions.StartReading(c.ctx, c.alice.ID, s.ID)
	assert.True(t, domain.IsForbidden(err))

	reading, err := c.sessions.StartReading(c.ctx, c.coach.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionReading, reading.Status)
	assert.NotNil(t, reading.ReadingAt)

	_, err = c.sessions.StartReading(c.ctx, c.coach.ID, s.ID)
	assert.True(t, domain.IsConflict(err))

	done, err := c.sessions.Complete(c.ctx, c.coach.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	detail, err := c.sessions.Get(c.ctx, c.bob.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rovers", detail.Match.Opponent)

	_, err = c.sessions.Get(c.ctx, c.otherTeamPlayer().ID, s.ID)
	assert.True(t, domain.IsForbidden(err))
}

func TestListSessionsFilter(t *testing.T) {
	c := newClub(t)
	first := c.playSession(nil)
	second := c.openSession()

	all, err := c.sessions.List(c.ctx, c.alice.ID, c.team.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	completed := domain.SessionCompleted
	done, err := c.sessions.List(c.ctx, c.alice.ID, c.team.ID, &completed)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, first.ID, done[0].ID)

	bogus := domain.SessionStatus("PAUSED")
	_, err = c.sessions.List(c.ctx, c.alice.ID, c.team.ID, &bogus)
	assert.True(t, domain.IsValidationError(err))
}

func TestAssignReader(t *testing.T) {
	c := newClub(t)
	s := c.openSession()

	_, err := c.sessions.AssignReader(c.ctx, c.alice.ID, s.ID, c.bob.ID)
	assert.True(t, domain.IsForbidden(err))

	_, err = c.sessions.AssignReader(c.ctx, c.coach.ID, s.ID, c.otherTeamPlayer().ID)
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.True(t, domain.IsValidationError(err))
	assert.Equal(t, "player_id", de.Field)

	updated, err := c.sessions.AssignReader(c.ctx, c.coach.ID, s.ID, c.bob.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ReaderID)
	assert.Equal(t, c.bob.ID, *updated.ReaderID)

	c.complete(s.ID)
	_, err = c.sessions.AssignReader(c.ctx, c.coach.ID, s.ID, c.alice.ID)
	assert.True(t, domain.IsConflict(err))
}

func TestProgress(t *testing.T) {
	c := newClub(t)
	s := c.openSession()
	c.vote(s.ID, c.alice, ballot(c.bob, c.carol))
	c.vote(s.ID, c.bob, ballot(c.alice, c.carol))

	p, err := c.sessions.Progress(c.ctx, c.carol.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Votes)
	assert.Equal(t, 4, p.Members)
	assert.ElementsMatch(t, []uuid.UUID{c.alice.ID, c.bob.ID}, p.Voted)
	assert.ElementsMatch(t, []uuid.UUID{c.coach.ID, c.carol.ID}, p.Pending)
}

