package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cricket-query/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// InningsRepository stores the per-innings rows that career totals are
// aggregated from.
type InningsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewInningsRepository(sqlDB *sql.DB, logger zerolog.Logger) *InningsRepository {
	return &InningsRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const (
	insertBattingSQL = `
INSERT INTO batting_innings (id, player_id, format, runs, match_url, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET runs = excluded.runs`

	insertBowlingSQL = `
INSERT INTO bowling_innings (id, player_id, format, wickets, match_url, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET wickets = excluded.wickets`
)

func battingRows(records []domain.BattingInnings) [][]any {
	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = []any{rec.ID, rec.PlayerID, string(rec.Format), rec.Runs, rec.MatchURL, rec.CreatedAt}
	}
	return rows
}

func bowlingRows(records []domain.BowlingInnings) [][]any {
	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = []any{rec.ID, rec.PlayerID, string(rec.Format), rec.Wickets, rec.MatchURL, rec.CreatedAt}
	}
	return rows
}

func (r *InningsRepository) InsertBatting(ctx context.Context, records []domain.BattingInnings) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return r.insert(ctx, tx, insertBattingSQL, "batting", battingRows(records))
	})
}

func (r *InningsRepository) InsertBowling(ctx context.Context, records []domain.BowlingInnings) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return r.insert(ctx, tx, insertBowlingSQL, "bowling", bowlingRows(records))
	})
}

// Replace swaps the stored batting and bowling innings for the given ones in
// a single transaction. A nil slice leaves that table untouched; an empty
// non-nil slice clears it. On error nothing changes.
func (r *InningsRepository) Replace(ctx context.Context, batting []domain.BattingInnings, bowling []domain.BowlingInnings) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if batting != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM batting_innings`); err != nil {
				return fmt.Errorf("failed to clear batting innings: %w", err)
			}
			if err := r.insert(ctx, tx, insertBattingSQL, "batting", battingRows(batting)); err != nil {
				return err
			}
		}
		if bowling != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM bowling_innings`); err != nil {
				return fmt.Errorf("failed to clear bowling innings: %w", err)
			}
			if err := r.insert(ctx, tx, insertBowlingSQL, "bowling", bowlingRows(bowling)); err != nil {
				return err
			}
		}

		r.logger.Info().
			Bool("batting", batting != nil).
			Bool("bowling", bowling != nil).
			Msg("innings replaced")
		return nil
	})
}

func (r *InningsRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit innings: %w", err)
	}
	return nil
}

// insert writes rows within tx. The first column is the id and the last the
// creation time; both are filled in when empty.
func (r *InningsRepository) insert(ctx context.Context, tx *sql.Tx, query, kind string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", kind, err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, row := range rows {
		if id, _ := row[0].(string); id == "" {
			id, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
			row[0] = id
		}
		if created, _ := row[len(row)-1].(time.Time); created.IsZero() {
			row[len(row)-1] = now
		}

		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to insert %s innings for player %v: %w", kind, row[1], err)
		}
	}

	r.logger.Debug().Str("kind", kind).Int("rows", len(rows)).Msg("innings inserted")
	return nil
}
