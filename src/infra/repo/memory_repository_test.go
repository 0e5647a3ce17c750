package repo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thethird/src/core/domain"
	"thethird/src/core/ports"
	"thethird/src/infra/logger"
)

func newTeam(t *testing.T, r *MemoryRepository) (*domain.Team, *domain.Player) {
	t.Helper()
	team, manager, err := r.CreateTeam(context.Background(), "FC Third", "Coach")
	require.NoError(t, err)
	return team, manager
}

func TestMemoryRepositoryPlayers(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository(logger.Discard())
	team, manager := newTeam(t, r)

	assert.Equal(t, domain.RoleManager, manager.Role)

	p, err := r.CreatePlayer(ctx, team.ID, "Zizou", domain.RoleMember)
	require.NoError(t, err)

	_, err = r.CreatePlayer(ctx, team.ID, "zizou", domain.RoleMember)
	assert.True(t, domain.IsConflict(err))

	_, err = r.CreatePlayer(ctx, uuid.New(), "Ghost", domain.RoleMember)
	assert.True(t, domain.IsNotFound(err))

	got, err := r.GetPlayer(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zizou", got.DisplayName)

	roster, err := r.ListPlayers(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 2)

	_, err = r.GetPlayer(ctx, uuid.New())
	assert.True(t, domain.IsNotFound(err))
}

func TestMemoryRepositorySessionLifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository(logger.Discard())
	team, manager := newTeam(t, r)

	match, session, err := r.CreateMatchSession(ctx, team.ID, "Rovers", time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.SessionOpen, session.Status)
	assert.Equal(t, match.ID, session.MatchID)

	_, _, err = r.CreateMatchSession(ctx, team.ID, "United", time.Now())
	assert.True(t, domain.IsConflict(err), "only one session in progress per team")

	_, err = r.TransitionSession(ctx, session.ID, domain.SessionReading, domain.SessionCompleted, time.Now())
	assert.True(t, domain.IsConflict(err))

	reading, err := r.TransitionSession(ctx, session.ID, domain.SessionOpen, domain.SessionReading, time.Now())
	require.NoError(t, err)
	assert.NotNil(t, reading.ReadingAt)

	withReader, err := r.SetSessionReader(ctx, session.ID, manager.ID)
	require.NoError(t, err)
	require.NotNil(t, withReader.ReaderID)
	assert.Equal(t, manager.ID, *withReader.ReaderID)

	done, err := r.TransitionSession(ctx, session.ID, domain.SessionReading, domain.SessionCompleted, time.Now())
	require.NoError(t, err)
	assert.NotNil(t, done.CompletedAt)

	_, second, err := r.CreateMatchSession(ctx, team.ID, "United", time.Now())
	require.NoError(t, err)

	all, err := r.ListSessions(ctx, team.ID, ports.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	completed := domain.SessionCompleted
	only, err := r.ListSessions(ctx, team.ID, ports.SessionFilter{Status: &completed})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, session.ID, only[0].ID)
}

func TestMemoryRepositoryOneVotePerVoter(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository(logger.Discard())
	team, manager := newTeam(t, r)
	p, err := r.CreatePlayer(ctx, team.ID, "Striker", domain.RoleMember)
	require.NoError(t, err)
	_, session, err := r.CreateMatchSession(ctx, team.ID, "Rovers", time.Now())
	require.NoError(t, err)

	vote := domain.Vote{SessionID: session.ID, VoterID: manager.ID, TopPlayerID: p.ID, FlopPlayerID: manager.ID}

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.CreateVote(ctx, vote)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, domain.IsConflict(err))
	}
	assert.Equal(t, 1, succeeded)

	votes, err := r.ListVotes(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, votes, 1)
}

func TestMemoryRepositoryCompletedHistory(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository(logger.Discard())
	team, manager := newTeam(t, r)
	p, err := r.CreatePlayer(ctx, team.ID, "Keeper", domain.RoleMember)
	require.NoError(t, err)

	var ids []uuid.UUID
	for i := 0; i < 2; i++ {
		_, s, err := r.CreateMatchSession(ctx, team.ID, "Opponent", time.Now())
		require.NoError(t, err)
		_, err = r.CreateVote(ctx, domain.Vote{SessionID: s.ID, VoterID: manager.ID, TopPlayerID: p.ID, FlopPlayerID: manager.ID})
		require.NoError(t, err)
		_, err = r.TransitionSession(ctx, s.ID, domain.SessionOpen, domain.SessionReading, time.Now())
		require.NoError(t, err)
		_, err = r.TransitionSession(ctx, s.ID, domain.SessionReading, domain.SessionCompleted, time.Now())
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}
	_, _, err = r.CreateMatchSession(ctx, team.ID, "Still open", time.Now())
	require.NoError(t, err)

	history, err := r.ListCompletedSessionVotes(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, ids[0], history[0].Session.ID, "oldest first")
	assert.Len(t, history[0].Votes, 1)
	assert.Len(t, history[1].Votes, 1)
}
