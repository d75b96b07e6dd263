// Package database opens the sqlite store behind the snapshot and brings its
// schema up to date.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"cricket-query/internal/config"
	"cricket-query/internal/constants"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// connParams are applied by the driver to every pooled connection.
// journal_mode is a property of the database file, so it is set once below.
const connParams = "_foreign_keys=on&_busy_timeout=5000&_synchronous=NORMAL"

type pragma struct {
	name  string
	value string
}

var filePragmas = []pragma{
	{"journal_mode", "WAL"},
	{"cache_size", "-64000"},
	{"temp_store", "MEMORY"},
}

func New(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	return Open(cfg.DBPath, logger)
}

// Open connects to the sqlite file at path and runs pending migrations.
func Open(path string, logger zerolog.Logger) (*sql.DB, error) {
	log := logger.With().Str("component", "database").Str("path", path).Logger()
	log.Info().Msg("opening database")

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	db.SetMaxOpenConns(constants.DBMaxOpenConns)
	db.SetMaxIdleConns(constants.DBMaxIdleConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	if err := applyPragmas(db, log); err != nil {
		db.Close()
		return nil, err
	}

	version, err := migrate(db, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Int64("schema_version", version).Msg("database ready")
	return db, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + connParams
}

func applyPragmas(db *sql.DB, logger zerolog.Logger) error {
	for _, p := range filePragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			logger.Error().Err(err).Str("pragma", p.name).Msg("failed to set pragma")
			return fmt.Errorf("failed to set PRAGMA %s: %w", p.name, err)
		}
		logger.Debug().Str("pragma", p.name).Str("value", p.value).Msg("pragma set")
	}
	return nil
}

// migrate applies the embedded goose migrations and returns the resulting
// schema version.
func migrate(db *sql.DB, logger zerolog.Logger) (int64, error) {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{logger: logger})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return 0, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

type gooseLogger struct {
	logger zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Fatal().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
