package service

import (
	"context"
	"fmt"
	"io"
	"os"

	"cricket-query/internal/domain"
	"cricket-query/internal/ingest"
	"cricket-query/internal/repository"

	"github.com/rs/zerolog"
)

// ImportService loads delimited files into the database that snapshots are
// built from.
type ImportService struct {
	playerRepo  *repository.PlayerRepository
	inningsRepo *repository.InningsRepository
	matchRepo   *repository.MatchRepository
	logger      zerolog.Logger
}

func NewImportService(playerRepo *repository.PlayerRepository, inningsRepo *repository.InningsRepository, matchRepo *repository.MatchRepository, logger zerolog.Logger) *ImportService {
	return &ImportService{playerRepo: playerRepo, inningsRepo: inningsRepo, matchRepo: matchRepo, logger: logger}
}

// ImportMatches replaces every match table with <dir>/<format>.csv. All four
// files must parse before anything is written, and they are written in one
// transaction.
func (s *ImportService) ImportMatches(ctx context.Context, dir string) (map[domain.Format]int, error) {
	tables, err := ingest.LoadMatchDir(dir)
	if err != nil {
		s.logger.Error().Err(err).Str("dir", dir).Msg("failed to read match tables")
		return nil, err
	}

	if err := s.matchRepo.ReplaceTables(ctx, tables); err != nil {
		s.logger.Error().Err(err).Str("dir", dir).Msg("failed to store match tables")
		return nil, fmt.Errorf("failed to store matches: %w", err)
	}

	counts := make(map[domain.Format]int, len(tables))
	for _, f := range domain.Formats {
		counts[f] = len(tables[f])
		s.logger.Info().Str("format", string(f)).Int("matches", counts[f]).Msg("match table imported")
	}

	return counts, nil
}

type PlayerImport struct {
	Players int `json:"players"`
	Batting int `json:"batting_innings"`
	Bowling int `json:"bowling_innings"`
	Stored  int `json:"stored_players"`
}

// ImportPlayers upserts players and replaces the batting or bowling innings
// whose file is given. Empty paths are skipped and leave their table as it
// is. Innings are replaced in one transaction, so a bad file keeps the
// previous totals.
func (s *ImportService) ImportPlayers(ctx context.Context, playersPath, battingPath, bowlingPath string) (*PlayerImport, error) {
	var players []domain.Player
	var batting []domain.BattingInnings
	var bowling []domain.BowlingInnings

	if err := readFile(playersPath, func(r io.Reader) (err error) {
		players, err = ingest.ReadPlayers(r)
		return err
	}); err != nil {
		return nil, err
	}
	if err := readFile(battingPath, func(r io.Reader) (err error) {
		batting, err = ingest.ReadBatting(r)
		return err
	}); err != nil {
		return nil, err
	}
	if err := readFile(bowlingPath, func(r io.Reader) (err error) {
		bowling, err = ingest.ReadBowling(r)
		return err
	}); err != nil {
		return nil, err
	}

	if err := s.playerRepo.UpsertBatch(ctx, players); err != nil {
		return nil, fmt.Errorf("failed to store players: %w", err)
	}

	// readFile leaves batting or bowling nil when its path is empty
	if err := s.inningsRepo.Replace(ctx, batting, bowling); err != nil {
		return nil, fmt.Errorf("failed to store innings: %w", err)
	}

	stored, err := s.playerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	result := &PlayerImport{Players: len(players), Batting: len(batting), Bowling: len(bowling), Stored: stored}
	s.logger.Info().
		Int("players", result.Players).
		Int("stored", result.Stored).
		Int("batting", result.Batting).
		Int("bowling", result.Bowling).
		Msg("players imported")

	return result, nil
}

func readFile(path string, read func(io.Reader) error) error {
	if path == "" {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	if err := read(file); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}
