package domain

import (
	"fmt"
	"strings"
	"time"
)

type Format string

const (
	FormatTest Format = "test"
	FormatODI  Format = "odi"
	FormatT20I Format = "t20i"
	FormatIPL  Format = "ipl"
)

// Formats lists every supported format in table-selection order.
var Formats = []Format{FormatTest, FormatODI, FormatT20I, FormatIPL}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// WicketWeight makes one wicket worth thirty runs when ranking players by
// career totals. It is a tunable ranking constant, not a measured ratio.
const WicketWeight = 30

type PlayerStats struct {
	Matches int `json:"matches"`
	Runs    int `json:"runs"`
	Wickets int `json:"wickets"`
}

// PlayerRecord is a player with aggregated career totals, as held in a snapshot.
type PlayerRecord struct {
	PlayerID int64
	Name     string
	FullName string
	Country  string
	Stats    PlayerStats
}

func (p PlayerRecord) TotalStats() int {
	return p.Stats.Runs + WicketWeight*p.Stats.Wickets
}

type MatchRecord struct {
	Format     Format
	URL        string
	SeriesName string
	Season     string // optional year string, "" when absent
}

type Player struct {
	PlayerID  int64
	Name      string
	FullName  string
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type BattingInnings struct {
	ID        string // nanoid
	PlayerID  int64
	Format    Format
	Runs      int
	MatchURL  string
	CreatedAt time.Time
}

type BowlingInnings struct {
	ID        string // nanoid
	PlayerID  int64
	Format    Format
	Wickets   int
	MatchURL  string
	CreatedAt time.Time
}
