package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cricket-query/internal/constants"
	"cricket-query/internal/domain"
	"cricket-query/internal/matchquery"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const upsertMatchSQL = `
INSERT INTO match_records (url, format, series_name, season, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (url) DO UPDATE SET
    format = excluded.format,
    series_name = excluded.series_name,
    season = excluded.season,
    position = excluded.position,
    updated_at = excluded.updated_at`

// UpsertBatch stores records of one or more formats. Each record's position
// within its format is its index among the records of that format.
func (r *MatchRepository) UpsertBatch(ctx context.Context, records []domain.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.upsert(ctx, tx, records); err != nil {
			return err
		}
		r.logger.Debug().Int("matches", len(records)).Msg("match batch upserted")
		return nil
	})
}

// ReplaceTables makes each given table the complete content of its format:
// rows of that format missing from the table are deleted and the rest keep
// the table order. Formats absent from tables are left alone. All formats
// are written in one transaction, so a failure leaves every table as it was.
func (r *MatchRepository) ReplaceTables(ctx context.Context, tables matchquery.Tables) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, f := range domain.Formats {
			records, ok := tables[f]
			if !ok {
				continue
			}
			for _, m := range records {
				if m.Format != f {
					return fmt.Errorf("match %s has format %q in the %s table", m.URL, m.Format, f)
				}
				if m.URL == "" {
					return fmt.Errorf("match without url in the %s table", f)
				}
			}

			if _, err := tx.ExecContext(ctx, `DELETE FROM match_records WHERE format = ?`, string(f)); err != nil {
				return fmt.Errorf("failed to clear %s matches: %w", f, err)
			}
			if err := r.upsert(ctx, tx, records); err != nil {
				return err
			}

			r.logger.Debug().Str("format", string(f)).Int("matches", len(records)).Msg("match table replaced")
		}
		return nil
	})
}

func (r *MatchRepository) upsert(ctx context.Context, tx *sql.Tx, records []domain.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, upsertMatchSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare match upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	positions := make(map[domain.Format]int)
	for i := 0; i < len(records); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(records))

		for _, m := range records[i:end] {
			pos := positions[m.Format]
			positions[m.Format] = pos + 1

			if _, err := stmt.ExecContext(ctx, m.URL, string(m.Format), m.SeriesName, m.Season, pos, now, now); err != nil {
				return fmt.Errorf("failed to upsert match %s: %w", m.URL, err)
			}
		}
	}
	return nil
}

func (r *MatchRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit matches: %w", err)
	}
	return nil
}

func (r *MatchRepository) LoadFormat(ctx context.Context, format domain.Format) ([]domain.MatchRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT url, series_name, season
FROM match_records
WHERE format = ?
ORDER BY position, url`, string(format))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s matches: %w", format, err)
	}
	defer rows.Close()

	records := []domain.MatchRecord{}
	for rows.Next() {
		m := domain.MatchRecord{Format: format}
		if err := rows.Scan(&m.URL, &m.SeriesName, &m.Season); err != nil {
			return nil, fmt.Errorf("failed to scan %s match: %w", format, err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s matches: %w", format, err)
	}

	return records, nil
}

// LoadAll returns a table for every known format, loading the formats
// concurrently; formats without rows get an empty table.
func (r *MatchRepository) LoadAll(ctx context.Context) (matchquery.Tables, error) {
	loaded := make([][]domain.MatchRecord, len(domain.Formats))

	g, gCtx := errgroup.WithContext(ctx)
	for i, f := range domain.Formats {
		i, f := i, f
		g.Go(func() error {
			records, err := r.LoadFormat(gCtx, f)
			if err != nil {
				return err
			}
			loaded[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tables := make(matchquery.Tables, len(domain.Formats))
	for i, f := range domain.Formats {
		tables[f] = loaded[i]
	}
	return tables, nil
}
