package fx

import (
	"context"
	"database/sql"

	"cricket-query/internal/api"
	"cricket-query/internal/classifier"
	"cricket-query/internal/config"
	"cricket-query/internal/database"
	"cricket-query/internal/logger"
	"cricket-query/internal/repository"
	"cricket-query/internal/server"
	"cricket-query/internal/service"
	"cricket-query/internal/snapshot"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideStore(players *repository.PlayerRepository, matches *repository.MatchRepository, logger zerolog.Logger) *snapshot.Store {
	return snapshot.NewStore(players, matches, logger)
}

// CloseDatabase is invoked before any other hook is appended, so the
// connection is closed after everything that uses it has stopped.
func CloseDatabase(lc fx.Lifecycle, db *sql.DB, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			return nil
		},
	})
}

// StorageModule is everything needed to read and write the database.
var StorageModule = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Invoke(CloseDatabase),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewInningsRepository),
	fx.Provide(repository.NewMatchRepository),
)

var Module = fx.Options(
	StorageModule,
	fx.Provide(ProvideStore),
	// llm
	fx.Provide(api.NewProvider),
	fx.Provide(classifier.New),
	// svc
	fx.Provide(service.NewQueryService),
	fx.Provide(service.NewImportService),
	// server
	fx.Provide(server.NewCricketServer),
	fx.Invoke(snapshot.Register),
)
