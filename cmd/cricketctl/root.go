package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"cricket-query/internal/api"
	"cricket-query/internal/classifier"
	"cricket-query/internal/config"
	"cricket-query/internal/constants"
	"cricket-query/internal/database"
	"cricket-query/internal/logger"
	"cricket-query/internal/repository"
	"cricket-query/internal/service"
	"cricket-query/internal/snapshot"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	dbPath   string
	logLevel string
}

// app holds what a command needs. Logs go to stderr so that stdout carries
// only command output.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	db     *sql.DB

	players *repository.PlayerRepository
	innings *repository.InningsRepository
	matches *repository.MatchRepository
}

func (o *rootOptions) open() (*app, error) {
	level, err := zerolog.ParseLevel(o.logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", o.logLevel, err)
	}
	log := logger.NewWithWriter(os.Stderr, level)

	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}

	db, err := database.New(cfg, log)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  log,
		db:      db,
		players: repository.NewPlayerRepository(db, log),
		innings: repository.NewInningsRepository(db, log),
		matches: repository.NewMatchRepository(db, log),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) importService() *service.ImportService {
	return service.NewImportService(a.players, a.innings, a.matches, a.logger)
}

// queryService builds the query service, loading a snapshot from the
// database first when load is set. Classification does not need one.
func (a *app) queryService(ctx context.Context, load bool) (*service.QueryService, error) {
	store := snapshot.NewStore(a.players, a.matches, a.logger)

	if load {
		loadCtx, cancel := context.WithTimeout(ctx, constants.SnapshotLoadTimeout)
		defer cancel()
		if err := store.Reload(loadCtx); err != nil {
			return nil, err
		}
	}

	provider, err := api.NewProvider(a.cfg)
	if err != nil {
		return nil, err
	}
	return service.NewQueryService(store, classifier.New(provider, a.logger), a.logger), nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "cricketctl",
		Short:        "Import cricket data and query players and matches",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "sqlite database path (defaults to DB_PATH)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	cmd.AddCommand(
		newImportCmd(opts),
		newResolveCmd(opts),
		newSearchCmd(opts),
		newClassifyCmd(opts),
	)
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
