package ranking

import "thethird/src/core/domain"

// Board is the ranking of one category of one session.
type Board struct {
	Category   domain.Category `json:"category"`
	TotalVotes int             `json:"total_votes"`
	Ranking    []Entry         `json:"ranking"`
	Podium     []Step          `json:"podium,omitempty"`
}

// Empty reports whether nobody voted in the category.
func (b Board) Empty() bool {
	return b.TotalVotes == 0
}

// BuildBoard ranks category c over votes.
func BuildBoard(votes []domain.Vote, c domain.Category, names NameLookup, opts ...Option) Board {
	nominees := Nominees(votes, c)
	entries := Rank(nominees, names, opts...)
	return Board{
		Category:   c,
		TotalVotes: len(nominees),
		Ranking:    entries,
		Podium:     Podium(entries),
	}
}
