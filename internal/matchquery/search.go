// Package matchquery answers natural-language questions about historical
// matches ("last test ashes 2023") against per-format match tables.
package matchquery

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"cricket-query/internal/domain"
)

const DefaultTopK = 5

var ErrTableMissing = errors.New("match table missing")

// Tables maps each format to its match records in load order. Tables are
// replaced wholesale on reload and never mutated in place.
type Tables map[domain.Format][]domain.MatchRecord

type Result struct {
	URL        string   `json:"url"`
	SeriesName string   `json:"series_name"`
	Season     string   `json:"season"`
	Score      float64  `json:"score"`
	Teams      []string `json:"teams"`
	MatchLabel string   `json:"match_label"`
}

// Search scores every record of the table selected by the query format and
// returns those above MinScore, best first. Records with equal scores keep
// their table order. topK <= 0 means DefaultTopK.
func Search(tables Tables, query string, topK int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return []Result{}, nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	q := ParseQuery(query)
	table, ok := tables[q.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableMissing, q.Format)
	}

	results := make([]Result, 0)
	for _, rec := range table {
		score := Score(rec, q)
		if score <= MinScore {
			continue
		}
		results = append(results, Result{
			URL:        rec.URL,
			SeriesName: rec.SeriesName,
			Season:     rec.Season,
			Score:      score,
			Teams:      ExtractTeams(rec.URL),
			MatchLabel: ExtractMatchNumber(rec.URL),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}
