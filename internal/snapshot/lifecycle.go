package snapshot

import (
	"context"
	"sync"

	"cricket-query/internal/config"
	"cricket-query/internal/constants"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Register loads the first snapshot on start, failing startup if it cannot,
// and keeps refreshing it in the background until stop.
func Register(lc fx.Lifecycle, store *Store, cfg *config.Config, logger zerolog.Logger) {
	var (
		cancel context.CancelFunc
		wg     sync.WaitGroup
	)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			loadCtx, loadCancel := context.WithTimeout(ctx, constants.SnapshotLoadTimeout)
			defer loadCancel()

			if err := store.Reload(loadCtx); err != nil {
				return err
			}

			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.Run(runCtx, cfg.SnapshotRefresh)
			}()

			logger.Info().Dur("interval", cfg.SnapshotRefresh).Msg("snapshot refresh started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			wg.Wait()
			logger.Info().Msg("snapshot refresh stopped")
			return nil
		},
	})
}
