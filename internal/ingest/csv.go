// Package ingest reads the delimited files produced by the scrapers into
// domain records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cricket-query/internal/domain"
	"cricket-query/internal/matchquery"
)

var ErrMissingColumn = errors.New("missing required column")

// header maps lowercased column names to their index.
type header map[string]int

func readHeader(r *csv.Reader, required ...string) (header, error) {
	cols, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	h := make(header, len(cols))
	for i, c := range cols {
		h[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(c, "\ufeff")))] = i
	}
	for _, name := range required {
		if _, ok := h[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return h, nil
}

// get returns the trimmed value of a column, or "" when the column or cell is
// absent.
func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h header) getInt(row []string, name string) (int, error) {
	v := h.get(row, name)
	if v == "" {
		return 0, nil
	}
	// scraped numbers sometimes carry a decimal part ("45.0")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	return int(f), nil
}

// getFormat parses the optional format column. A blank cell is allowed and
// yields ""; anything else must be a known format.
func (h header) getFormat(row []string) (domain.Format, error) {
	v := h.get(row, "format")
	if v == "" {
		return "", nil
	}
	return domain.ParseFormat(v)
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr
}

// forEachRow calls fn with every data row and its 1-based line number.
func forEachRow(cr *csv.Reader, fn func(line int, row []string) error) error {
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := fn(line, row); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

// ReadMatches reads a match table. The url column is required; series_name
// and season default to "". Rows without a url are skipped.
func ReadMatches(r io.Reader, format domain.Format) ([]domain.MatchRecord, error) {
	cr := newReader(r)
	h, err := readHeader(cr, "url")
	if err != nil {
		return nil, err
	}

	records := []domain.MatchRecord{}
	err = forEachRow(cr, func(_ int, row []string) error {
		url := h.get(row, "url")
		if url == "" {
			return nil
		}
		records = append(records, domain.MatchRecord{
			Format:     format,
			URL:        url,
			SeriesName: h.get(row, "series_name"),
			Season:     h.get(row, "season"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// LoadMatchDir reads <dir>/<format>.csv for every format. A missing file is
// an error: search cannot run without all of its tables.
func LoadMatchDir(dir string) (matchquery.Tables, error) {
	tables := make(matchquery.Tables, len(domain.Formats))
	for _, f := range domain.Formats {
		path := filepath.Join(dir, string(f)+".csv")
		records, err := readMatchFile(path, f)
		if err != nil {
			return nil, err
		}
		tables[f] = records
	}
	return tables, nil
}

func readMatchFile(path string, format domain.Format) ([]domain.MatchRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s table: %w", format, err)
	}
	defer file.Close()

	records, err := ReadMatches(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

func ReadPlayers(r io.Reader) ([]domain.Player, error) {
	cr := newReader(r)
	h, err := readHeader(cr, "player_id", "name")
	if err != nil {
		return nil, err
	}

	players := []domain.Player{}
	err = forEachRow(cr, func(_ int, row []string) error {
		id, err := strconv.ParseInt(h.get(row, "player_id"), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid player_id: %w", err)
		}
		name := h.get(row, "name")
		if name == "" {
			return fmt.Errorf("player %d has no name", id)
		}
		players = append(players, domain.Player{
			PlayerID: id,
			Name:     name,
			FullName: h.get(row, "full_name"),
			Country:  h.get(row, "country"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return players, nil
}

func ReadBatting(r io.Reader) ([]domain.BattingInnings, error) {
	cr := newReader(r)
	h, err := readHeader(cr, "player_id", "runs")
	if err != nil {
		return nil, err
	}

	innings := []domain.BattingInnings{}
	err = forEachRow(cr, func(_ int, row []string) error {
		id, err := strconv.ParseInt(h.get(row, "player_id"), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid player_id: %w", err)
		}
		runs, err := h.getInt(row, "runs")
		if err != nil {
			return err
		}
		format, err := h.getFormat(row)
		if err != nil {
			return err
		}
		innings = append(innings, domain.BattingInnings{
			PlayerID: id,
			Format:   format,
			Runs:     runs,
			MatchURL: h.get(row, "match_url"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return innings, nil
}

func ReadBowling(r io.Reader) ([]domain.BowlingInnings, error) {
	cr := newReader(r)
	h, err := readHeader(cr, "player_id", "wickets")
	if err != nil {
		return nil, err
	}

	innings := []domain.BowlingInnings{}
	err = forEachRow(cr, func(_ int, row []string) error {
		id, err := strconv.ParseInt(h.get(row, "player_id"), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid player_id: %w", err)
		}
		wickets, err := h.getInt(row, "wickets")
		if err != nil {
			return err
		}
		format, err := h.getFormat(row)
		if err != nil {
			return err
		}
		innings = append(innings, domain.BowlingInnings{
			PlayerID: id,
			Format:   format,
			Wickets:  wickets,
			MatchURL: h.get(row, "match_url"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return innings, nil
}
