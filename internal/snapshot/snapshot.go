// Package snapshot keeps the in-memory player mapping and match tables that
// resolution and search run against. A snapshot is immutable once published;
// reloads build a new one and swap it in atomically.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"cricket-query/internal/domain"
	"cricket-query/internal/matchquery"
	"cricket-query/internal/resolver"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrNotLoaded = errors.New("snapshot not loaded")

type Snapshot struct {
	Players  map[int64]domain.PlayerRecord
	Resolver *resolver.Resolver
	Matches  matchquery.Tables
	LoadedAt time.Time
}

// New builds a snapshot. Every format must have a table, possibly empty.
func New(players map[int64]domain.PlayerRecord, matches matchquery.Tables) (*Snapshot, error) {
	if players == nil {
		return nil, errors.New("player mapping missing")
	}
	for _, f := range domain.Formats {
		if _, ok := matches[f]; !ok {
			return nil, fmt.Errorf("%w: %s", matchquery.ErrTableMissing, f)
		}
	}

	return &Snapshot{
		Players:  players,
		Resolver: resolver.New(players),
		Matches:  matches,
		LoadedAt: time.Now(),
	}, nil
}

func (s *Snapshot) MatchCount() int {
	n := 0
	for _, t := range s.Matches {
		n += len(t)
	}
	return n
}

type PlayerSource interface {
	LoadSnapshot(ctx context.Context) (map[int64]domain.PlayerRecord, error)
}

type MatchSource interface {
	LoadAll(ctx context.Context) (matchquery.Tables, error)
}

type Store struct {
	players PlayerSource
	matches MatchSource
	logger  zerolog.Logger

	reloadMu sync.Mutex
	current  atomic.Pointer[Snapshot]
}

func NewStore(players PlayerSource, matches MatchSource, logger zerolog.Logger) *Store {
	return &Store{players: players, matches: matches, logger: logger}
}

// Current returns the published snapshot, or ErrNotLoaded before the first
// successful load.
func (s *Store) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

func (s *Store) Set(snap *Snapshot) {
	s.current.Store(snap)
}

// Reload loads players and match tables in parallel and publishes them as a
// new snapshot. On failure the previous snapshot stays in place.
func (s *Store) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()

	g, gCtx := errgroup.WithContext(ctx)
	var players map[int64]domain.PlayerRecord
	var matches matchquery.Tables

	g.Go(func() error {
		var err error
		players, err = s.players.LoadSnapshot(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		matches, err = s.matches.LoadAll(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to load snapshot")
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	snap, err := New(players, matches)
	if err != nil {
		s.logger.Error().Err(err).Msg("snapshot incomplete")
		return err
	}
	s.current.Store(snap)

	s.logger.Info().
		Int("players", len(snap.Players)).
		Int("matches", snap.MatchCount()).
		Dur("took", time.Since(start)).
		Msg("snapshot published")
	return nil
}

// Run reloads the snapshot every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Reload(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("snapshot refresh failed, keeping previous snapshot")
			}
		}
	}
}
