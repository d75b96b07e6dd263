// Package resolver maps a free-text player name onto a known player.
//
// Candidates are ranked by token-sort similarity, the top five are kept, and
// the winner is the one with the largest career totals (runs + 30*wickets),
// with similarity as the tiebreak. There is no similarity floor: a weak name
// match with dominant career totals beats a close match with small totals.
package resolver

import (
	"slices"
	"sort"
	"strings"

	"cricket-query/internal/domain"
	"cricket-query/internal/fuzzy"
)

// TopCandidates is the number of name matches considered before career
// totals decide the winner.
const TopCandidates = 5

type Candidate struct {
	PlayerID   int64              `json:"player_id"`
	Name       string             `json:"name"`
	Score      float64            `json:"score"`
	FullName   string             `json:"full_name"`
	Country    string             `json:"country"`
	Stats      domain.PlayerStats `json:"stats"`
	TotalStats int                `json:"total_stats"`
}

// Resolution is the outcome of a lookup. Found is false when the input is
// blank or there are no players; that is not an error.
type Resolution struct {
	Found       bool               `json:"found"`
	PlayerID    int64              `json:"player_id,omitempty"`
	MatchedName string             `json:"matched_name,omitempty"`
	Score       float64            `json:"score,omitempty"`
	FullName    string             `json:"full_name,omitempty"`
	Country     string             `json:"country,omitempty"`
	Stats       domain.PlayerStats `json:"stats"`
	Candidates  []Candidate        `json:"all_candidates"`
}

type entry struct {
	record domain.PlayerRecord
	name   string // lowercased display name
	sorted string // token-sorted form of name
}

// Resolver holds a read-only, id-ordered view of a player mapping. It is safe
// for concurrent use.
type Resolver struct {
	entries []entry
}

func New(players map[int64]domain.PlayerRecord) *Resolver {
	ids := make([]int64, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	entries := make([]entry, 0, len(ids))
	for _, id := range ids {
		p := players[id]
		p.PlayerID = id
		name := strings.ToLower(p.Name)
		entries = append(entries, entry{
			record: p,
			name:   name,
			sorted: fuzzy.SortTokens(name),
		})
	}

	return &Resolver{entries: entries}
}

// Resolve builds a Resolver for players and resolves name against it.
func Resolve(players map[int64]domain.PlayerRecord, name string) Resolution {
	return New(players).Resolve(name)
}

func (r *Resolver) Len() int {
	return len(r.entries)
}

func (r *Resolver) Resolve(name string) Resolution {
	query := fuzzy.SortTokens(strings.ToLower(name))
	if query == "" || len(r.entries) == 0 {
		return Resolution{Candidates: []Candidate{}}
	}

	scored := make([]Candidate, len(r.entries))
	for i, e := range r.entries {
		scored[i] = Candidate{
			PlayerID:   e.record.PlayerID,
			Name:       e.name,
			Score:      fuzzy.Ratio(query, e.sorted),
			FullName:   e.record.FullName,
			Country:    e.record.Country,
			Stats:      e.record.Stats,
			TotalStats: e.record.TotalStats(),
		}
	}

	// equal scores keep player id order
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	top := scored[:min(TopCandidates, len(scored))]

	sort.SliceStable(top, func(i, j int) bool {
		if top[i].TotalStats != top[j].TotalStats {
			return top[i].TotalStats > top[j].TotalStats
		}
		return top[i].Score > top[j].Score
	})

	candidates := make([]Candidate, len(top))
	copy(candidates, top)
	best := candidates[0]

	return Resolution{
		Found:       true,
		PlayerID:    best.PlayerID,
		MatchedName: best.Name,
		Score:       best.Score,
		FullName:    best.FullName,
		Country:     best.Country,
		Stats:       best.Stats,
		Candidates:  candidates,
	}
}
