package usecase

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thethird/src/core/domain"
)

func TestCastVote(t *testing.T) {
	c := newClub(t)
	s := c.openSession()

	b := ballot(c.bob, c.carol)
	b.TopComment = "  two goals  "
	b.PredictedTopID = ptr(c.bob.ID)
	b.PredictedFlopID = ptr(uuid.Nil)

	vote, err := c.votes.Cast(c.ctx, c.alice.ID, s.ID, b)
	require.NoError(t, err)
	assert.Equal(t, c.alice.ID, vote.VoterID)
	assert.Equal(t, "two goals", vote.TopComment)
	require.NotNil(t, vote.PredictedTopID)
	assert.Nil(t, vote.PredictedFlopID, "nil UUID means no prediction")

	_, err = c.votes.Cast(c.ctx, c.alice.ID, s.ID, ballot(c.carol, c.bob))
	assert.True(t, domain.IsConflict(err), "one vote per player and session")
}

func TestCastVoteValidation(t *testing.T) {
	c := newClub(t)
	s := c.openSession()
	stranger := c.otherTeamPlayer()

	tests := []struct {
		name  string
		b     Ballot
		field string
	}{
		{"missing top", Ballot{FlopPlayerID: c.bob.ID}, "top_player_id"},
		{"missing flop", Ballot{TopPlayerID: c.bob.ID}, "flop_player_id"},
		{"same player", ballot(c.bob, c.bob), "flop_player_id"},
		{"top not in team", Ballot{TopPlayerID: stranger.ID, FlopPlayerID: c.bob.ID}, "top_player_id"},
		{"prediction not in team", Ballot{TopPlayerID: c.bob.ID, FlopPlayerID: c.carol.ID, PredictedTopID: ptr(stranger.ID)}, "predicted_top_id"},
		{"best action not in team", Ballot{TopPlayerID: c.bob.ID, FlopPlayerID: c.carol.ID, BestActionPlayerID: ptr(uuid.New())}, "best_action_player_id"},
		{"comment too long", Ballot{TopPlayerID: c.bob.ID, FlopPlayerID: c.carol.ID, FlopComment: strings.Repeat("é", 281)}, "flop_comment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.votes.Cast(c.ctx, c.alice.ID, s.ID, tt.b)
			var de *domain.DomainError
			require.ErrorAs(t, err, &de)
			assert.True(t, domain.IsValidationError(err))
			assert.Equal(t, tt.field, de.Field)
		})
	}

	b := ballot(c.bob, c.carol)
	b.TopComment = strings.Repeat("é", 280)
	_, err := c.votes.Cast(c.ctx, c.alice.ID, s.ID, b)
	assert.NoError(t, err, "280 characters fit")
}

func TestCastVoteAccess(t *testing.T) {
	c := newClub(t)
	s := c.openSession()

	_, err := c.votes.Cast(c.ctx, c.otherTeamPlayer().ID, s.ID, ballot(c.bob, c.carol))
	assert.True(t, domain.IsForbidden(err))

	_, err = c.votes.Cast(c.ctx, uuid.New(), s.ID, ballot(c.bob, c.carol))
	assert.True(t, domain.IsUnauthorized(err))

	_, err = c.votes.Cast(c.ctx, c.alice.ID, uuid.New(), ballot(c.bob, c.carol))
	assert.True(t, domain.IsNotFound(err))

	_, err = c.sessions.StartReading(c.ctx, c.coach.ID, s.ID)
	require.NoError(t, err)
	_, err = c.votes.Cast(c.ctx, c.alice.ID, s.ID, ballot(c.bob, c.carol))
	assert.True(t, domain.IsConflict(err), "voting is closed once reading starts")
}

func TestSelfVoteAllowed(t *testing.T) {
	c := newClub(t)
	s := c.openSession()
	_, err := c.votes.Cast(c.ctx, c.alice.ID, s.ID, ballot(c.alice, c.bob))
	assert.NoError(t, err)
}
