package matchquery

import (
	"slices"
	"strings"

	"cricket-query/internal/domain"
	"cricket-query/internal/fuzzy"
)

// Scoring weights. They form a fixed heuristic and are not normalized.
const (
	SeriesAliasBoost   = 0.5
	SeriesFuzzyWeight  = 0.3
	TeamWeight         = 0.25
	TeamMatchThreshold = 70.0
	YearBoost          = 0.3
	WrongYearPenalty   = -0.2
	LastOrdinalStep    = 0.02
	OrdinalBoost       = 0.15
	OrdinalThreshold   = 80.0
	MinScore           = 0.1
)

// Score rates how well a match record answers a parsed query. Every term
// contributes independently; missing record fields only drop their term.
func Score(rec domain.MatchRecord, q Query) float64 {
	return seriesScore(rec, q) + teamScore(rec, q) + yearScore(rec, q) + ordinalScore(rec, q)
}

func seriesScore(rec domain.MatchRecord, q Query) float64 {
	series := strings.ToLower(rec.SeriesName)
	query := strings.ToLower(q.Original)

	switch {
	case strings.Contains(query, "ashes") && strings.Contains(series, "ashes"):
		return SeriesAliasBoost
	case strings.Contains(query, "border gavaskar") && strings.Contains(series, "border") && strings.Contains(series, "gavaskar"):
		return SeriesAliasBoost
	}
	return fuzzy.PartialRatio(query, series) / 100 * SeriesFuzzyWeight
}

// teamScore is the fraction of query teams found among the URL teams.
func teamScore(rec domain.MatchRecord, q Query) float64 {
	urlTeams := ExtractTeams(rec.URL)
	if len(q.Teams) == 0 || len(urlTeams) == 0 {
		return 0
	}

	found := 0
	for _, want := range q.Teams {
		for _, have := range urlTeams {
			if fuzzy.PartialRatio(strings.ToLower(want), strings.ToLower(have)) > TeamMatchThreshold {
				found++
				break
			}
		}
	}
	return float64(found) / float64(len(q.Teams)) * TeamWeight
}

// yearScore rewards the query year in the series name or season. It only
// penalizes a series name that names some other year, never a missing one.
func yearScore(rec domain.MatchRecord, q Query) float64 {
	if q.Year == "" {
		return 0
	}

	if strings.Contains(rec.SeriesName, q.Year) || strings.Contains(rec.Season, q.Year) {
		return YearBoost
	}

	others := yearPattern.FindAllString(rec.SeriesName, -1)
	if len(others) > 0 && !slices.Contains(others, q.Year) {
		return WrongYearPenalty
	}
	return 0
}

func ordinalScore(rec domain.MatchRecord, q Query) float64 {
	switch q.MatchNumber {
	case "":
		return 0
	case LastMatch:
		// favour later matches up to a cap, without knowing the series length
		if n := MatchOrdinal(rec.URL); n > 0 {
			return min(float64(n)*LastOrdinalStep, OrdinalBoost)
		}
		return 0
	}

	label := ExtractMatchNumber(rec.URL)
	if label != "" && fuzzy.Ratio(strings.ToLower(q.MatchNumber), strings.ToLower(label)) > OrdinalThreshold {
		return OrdinalBoost
	}
	return 0
}
