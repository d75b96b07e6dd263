package service

import (
	"context"
	"strings"
	"time"

	"cricket-query/internal/classifier"
	"cricket-query/internal/constants"
	"cricket-query/internal/domain"
	"cricket-query/internal/matchquery"
	"cricket-query/internal/resolver"
	"cricket-query/internal/snapshot"

	"github.com/rs/zerolog"
)

// QueryService answers player, match and routing questions against the
// currently published snapshot.
type QueryService struct {
	store      *snapshot.Store
	classifier *classifier.Classifier
	logger     zerolog.Logger
}

func NewQueryService(store *snapshot.Store, cls *classifier.Classifier, logger zerolog.Logger) *QueryService {
	return &QueryService{store: store, classifier: cls, logger: logger}
}

func (s *QueryService) ResolvePlayer(ctx context.Context, name string) (*resolver.Resolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := snap.Resolver.Resolve(name)

	s.logger.Info().
		Str("name", name).
		Bool("found", res.Found).
		Int64("player_id", res.PlayerID).
		Float64("score", res.Score).
		Dur("took", time.Since(start)).
		Msg("player resolved")

	return &res, nil
}

func (s *QueryService) SearchMatches(ctx context.Context, query string, topK int) ([]matchquery.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := matchquery.Search(snap.Matches, query, topK)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("match search failed")
		return nil, err
	}

	s.logger.Info().
		Str("query", query).
		Int("top_k", topK).
		Int("results", len(results)).
		Dur("took", time.Since(start)).
		Msg("matches searched")

	return results, nil
}

func (s *QueryService) ClassifyQuery(ctx context.Context, query string) *classifier.Classification {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	return s.classifier.Classify(ctx, strings.TrimSpace(query))
}

func (s *QueryService) ClassifyQueries(ctx context.Context, queries []string) []*classifier.Classification {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	trimmed := make([]string, len(queries))
	for i, q := range queries {
		trimmed[i] = strings.TrimSpace(q)
	}
	return s.classifier.ClassifyMany(ctx, trimmed)
}

type Status struct {
	Loaded            bool                  `json:"loaded"`
	LoadedAt          time.Time             `json:"loaded_at,omitzero"`
	Players           int                   `json:"players"`
	Matches           map[domain.Format]int `json:"matches"`
	ClassifierEnabled bool                  `json:"classifier_enabled"`
}

func (s *QueryService) Status() Status {
	st := Status{
		Matches:           make(map[domain.Format]int, len(domain.Formats)),
		ClassifierEnabled: s.classifier.Enabled(),
	}

	snap, err := s.store.Current()
	if err != nil {
		return st
	}

	st.Loaded = true
	st.LoadedAt = snap.LoadedAt
	st.Players = len(snap.Players)
	for f, table := range snap.Matches {
		st.Matches[f] = len(table)
	}
	return st
}
