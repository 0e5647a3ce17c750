package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"thethird/src/core/domain"
	"thethird/src/core/ports"
)

const (
	maxDisplayNameLen = 40
	maxOpponentLen    = 80
	maxCommentLen     = 280
)

// requireMember loads the caller and checks they belong to teamID.
func requireMember(ctx context.Context, repo ports.VotingRepository, callerID, teamID uuid.UUID) (*domain.Player, error) {
	caller, err := repo.GetPlayer(ctx, callerID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUnauthorizedError("unknown player")
		}
		return nil, err
	}
	if caller.TeamID != teamID {
		return nil, domain.NewForbiddenError("player is not a member of this team")
	}
	return caller, nil
}

// requireManager is requireMember restricted to the team's managers.
func requireManager(ctx context.Context, repo ports.VotingRepository, callerID, teamID uuid.UUID) (*domain.Player, error) {
	caller, err := requireMember(ctx, repo, callerID, teamID)
	if err != nil {
		return nil, err
	}
	if !caller.IsManager() {
		return nil, domain.NewForbiddenError("player must be a manager")
	}
	return caller, nil
}

// cleanName trims s and checks it holds 1..max characters.
func cleanName(field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", domain.NewValidationError(field, "cannot be empty")
	}
	if utf8.RuneCountInString(s) > max {
		return "", domain.NewValidationError(field, "too long")
	}
	return s, nil
}

// cleanComment trims s and checks it fits maxCommentLen. Empty is allowed.
func cleanComment(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxCommentLen {
		return "", domain.NewValidationError(field, "comment too long")
	}
	return s, nil
}
