package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cricket-query/internal/constants"
	"cricket-query/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const upsertPlayerSQL = `
INSERT INTO players (player_id, name, full_name, country, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (player_id) DO UPDATE SET
    name = excluded.name,
    full_name = excluded.full_name,
    country = excluded.country,
    updated_at = excluded.updated_at`

// snapshotSQL aggregates career totals: matches are batting innings, runs and
// wickets are summed across every format.
const snapshotSQL = `
SELECT p.player_id, p.name, p.full_name, p.country,
       COALESCE(b.matches, 0), COALESCE(b.runs, 0), COALESCE(w.wickets, 0)
FROM players p
LEFT JOIN (
    SELECT player_id, COUNT(*) AS matches, SUM(runs) AS runs
    FROM batting_innings
    GROUP BY player_id
) b ON b.player_id = p.player_id
LEFT JOIN (
    SELECT player_id, SUM(wickets) AS wickets
    FROM bowling_innings
    GROUP BY player_id
) w ON w.player_id = p.player_id
ORDER BY p.player_id`

func (r *PlayerRepository) Upsert(ctx context.Context, player *domain.Player) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, upsertPlayerSQL,
		player.PlayerID, player.Name, player.FullName, player.Country, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert player %d: %w", player.PlayerID, err)
	}
	return nil
}

func (r *PlayerRepository) UpsertBatch(ctx context.Context, players []domain.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertPlayerSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare player upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i := 0; i < len(players); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(players))

		for _, p := range players[i:end] {
			if _, err := stmt.ExecContext(ctx, p.PlayerID, p.Name, p.FullName, p.Country, now, now); err != nil {
				return fmt.Errorf("failed to upsert player %d: %w", p.PlayerID, err)
			}
		}

		r.logger.Debug().Int("upserted", end).Int("total", len(players)).Msg("player batch upserted")
	}

	return tx.Commit()
}

func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return n, nil
}

// LoadSnapshot returns every player with aggregated career totals, keyed by
// player id.
func (r *PlayerRepository) LoadSnapshot(ctx context.Context) (map[int64]domain.PlayerRecord, error) {
	rows, err := r.db.QueryContext(ctx, snapshotSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate player stats: %w", err)
	}
	defer rows.Close()

	players := make(map[int64]domain.PlayerRecord)
	for rows.Next() {
		var p domain.PlayerRecord
		if err := rows.Scan(&p.PlayerID, &p.Name, &p.FullName, &p.Country,
			&p.Stats.Matches, &p.Stats.Runs, &p.Stats.Wickets); err != nil {
			return nil, fmt.Errorf("failed to scan player stats: %w", err)
		}
		players[p.PlayerID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read player stats: %w", err)
	}

	r.logger.Debug().Int("players", len(players)).Msg("player snapshot loaded")
	return players, nil
}
