// Package ranking turns the votes of a session into tie-aware podiums.
//
// The computation is pure: callers fetch votes and player names, then
// call Rank (full ranking) and Podium (top three rank levels).
//
//	nominees := ranking.Nominees(votes, domain.CategoryTop)
//	entries := ranking.Rank(nominees, ranking.NamesFromPlayers(players))
//	steps := ranking.Podium(entries)
package ranking

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"

	"thethird/src/core/domain"
)

// PodiumDepth is the number of rank levels shown on a podium.
const PodiumDepth = 3

// UnknownPlayer is displayed for nominees missing from the name lookup.
const UnknownPlayer = "Unknown player"

// NameLookup resolves a player id to a display name.
type NameLookup func(id uuid.UUID) (string, bool)

// NamesFromPlayers builds a NameLookup over a roster.
func NamesFromPlayers(players []domain.Player) NameLookup {
	names := make(map[uuid.UUID]string, len(players))
	for _, p := range players {
		names[p.ID] = p.DisplayName
	}
	return func(id uuid.UUID) (string, bool) {
		name, ok := names[id]
		return name, ok
	}
}

// Count is the number of votes a nominee received.
type Count struct {
	PlayerID uuid.UUID
	Votes    int
}

// Entry is one ranked nominee.
type Entry struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	VoteCount  int       `json:"vote_count"`
	Percentage int       `json:"percentage"`
	Rank       int       `json:"rank"`
}

// Step groups the podium entries sharing a rank.
type Step struct {
	Rank    int     `json:"rank"`
	Entries []Entry `json:"entries"`
}

// TieBreak orders nominees with equal vote counts.
type TieBreak int

const (
	// FirstSeen keeps the order in which nominees first appear in the votes.
	FirstSeen TieBreak = iota
	// ByName orders tied nominees alphabetically by display name.
	ByName
)

type options struct {
	tieBreak TieBreak
}

// Option configures Rank.
type Option func(*options)

// WithTieBreak sets the secondary ordering among tied nominees.
// It never changes ranks, only display order.
func WithTieBreak(tb TieBreak) Option {
	return func(o *options) { o.tieBreak = tb }
}

// Nominees extracts the players named in category c.
// Votes that leave an optional category empty are skipped.
func Nominees(votes []domain.Vote, c domain.Category) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(votes))
	for _, v := range votes {
		if id, ok := v.Nominee(c); ok {
			out = append(out, id)
		}
	}
	return out
}

// Tally counts votes per distinct nominee, in first-appearance order.
func Tally(nominees []uuid.UUID) []Count {
	index := make(map[uuid.UUID]int, len(nominees))
	var counts []Count
	for _, id := range nominees {
		i, seen := index[id]
		if !seen {
			index[id] = len(counts)
			counts = append(counts, Count{PlayerID: id, Votes: 1})
			continue
		}
		counts[i].Votes++
	}
	return counts
}

// Rank tallies nominees and returns every nominee ranked by vote count,
// using competition ranking (1, 1, 3). Percentages are relative to
// len(nominees). An empty input yields an empty ranking.
func Rank(nominees []uuid.UUID, names NameLookup, opts ...Option) []Entry {
	o := options{tieBreak: FirstSeen}
	for _, opt := range opts {
		opt(&o)
	}

	counts := Tally(nominees)
	entries := make([]Entry, 0, len(counts))
	for _, c := range counts {
		entries = append(entries, Entry{
			PlayerID:   c.PlayerID,
			PlayerName: displayName(names, c.PlayerID),
			VoteCount:  c.Votes,
			Percentage: Percentage(c.Votes, len(nominees)),
		})
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if n := cmp.Compare(b.VoteCount, a.VoteCount); n != 0 {
			return n
		}
		if o.tieBreak == ByName {
			return strings.Compare(strings.ToLower(a.PlayerName), strings.ToLower(b.PlayerName))
		}
		return 0
	})

	ranks := CompetitionRanks(len(entries), func(i int) bool {
		return entries[i].VoteCount == entries[i-1].VoteCount
	})
	for i := range entries {
		entries[i].Rank = ranks[i]
	}
	return entries
}

// Podium keeps the entries ranked within PodiumDepth and groups them by rank.
// entries must be ordered by rank, as returned by Rank.
func Podium(entries []Entry) []Step {
	var steps []Step
	for _, e := range entries {
		if e.Rank > PodiumDepth {
			break
		}
		if n := len(steps); n > 0 && steps[n-1].Rank == e.Rank {
			steps[n-1].Entries = append(steps[n-1].Entries, e)
			continue
		}
		steps = append(steps, Step{Rank: e.Rank, Entries: []Entry{e}})
	}
	return steps
}

// Leaders returns the ids ranked first.
func Leaders(entries []Entry) []uuid.UUID {
	var ids []uuid.UUID
	for _, e := range entries {
		if e.Rank != 1 {
			break
		}
		ids = append(ids, e.PlayerID)
	}
	return ids
}

// CompetitionRanks assigns ranks to n items already sorted best-first.
// tiedWithPrevious(i), called for i >= 1, reports whether item i equals item i-1.
// Tied items share a rank; the next distinct item is ranked at its position.
func CompetitionRanks(n int, tiedWithPrevious func(i int) bool) []int {
	ranks := make([]int, n)
	for i := range ranks {
		if i > 0 && tiedWithPrevious(i) {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}

// Percentage returns part/total as a whole percentage, rounding halves up.
// A zero total yields 0.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100/float64(total) + 0.5))
}

func displayName(names NameLookup, id uuid.UUID) string {
	if names != nil {
		if name, ok := names(id); ok && name != "" {
			return name
		}
	}
	return UnknownPlayer
}
