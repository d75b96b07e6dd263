// Package server exposes the query service over connect. Messages are plain
// JSON documents; there is no protobuf schema.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cricket-query/internal/classifier"
	"cricket-query/internal/matchquery"
	"cricket-query/internal/resolver"
	"cricket-query/internal/service"
	"cricket-query/internal/snapshot"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const (
	CricketQueryName = "cricket.v1.CricketQuery"
	CricketQueryPath = "/" + CricketQueryName + "/"

	ResolvePlayerProcedure   = CricketQueryPath + "ResolvePlayer"
	SearchMatchesProcedure   = CricketQueryPath + "SearchMatches"
	ClassifyQueryProcedure   = CricketQueryPath + "ClassifyQuery"
	ClassifyQueriesProcedure = CricketQueryPath + "ClassifyQueries"
)

type CricketServer struct {
	svc *service.QueryService
}

func NewCricketServer(svc *service.QueryService) *CricketServer {
	return &CricketServer{svc: svc}
}

func (s *CricketServer) ResolvePlayer(ctx context.Context, req *connect.Request[ResolvePlayerRequest]) (*connect.Response[resolver.Resolution], error) {
	res, err := s.svc.ResolvePlayer(ctx, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(res), nil
}

func (s *CricketServer) SearchMatches(ctx context.Context, req *connect.Request[SearchMatchesRequest]) (*connect.Response[SearchMatchesResponse], error) {
	if req.Msg.TopK < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("top_k must not be negative"))
	}

	results, err := s.svc.SearchMatches(ctx, req.Msg.Query, req.Msg.TopK)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&SearchMatchesResponse{Query: req.Msg.Query, Results: results}), nil
}

func (s *CricketServer) ClassifyQuery(ctx context.Context, req *connect.Request[ClassifyQueryRequest]) (*connect.Response[classifier.Classification], error) {
	if strings.TrimSpace(req.Msg.Query) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("query is required"))
	}
	return connect.NewResponse(s.svc.ClassifyQuery(ctx, req.Msg.Query)), nil
}

func (s *CricketServer) ClassifyQueries(ctx context.Context, req *connect.Request[ClassifyQueriesRequest]) (*connect.Response[ClassifyQueriesResponse], error) {
	if len(req.Msg.Queries) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("queries are required"))
	}
	for i, q := range req.Msg.Queries {
		if strings.TrimSpace(q) == "" {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("query %d is blank", i))
		}
	}
	results := s.svc.ClassifyQueries(ctx, req.Msg.Queries)
	return connect.NewResponse(&ClassifyQueriesResponse{Results: results}), nil
}

// toConnectError reports a missing snapshot or table as a failed
// precondition; the caller has to load data before retrying.
func toConnectError(ctx context.Context, err error) error {
	code := connect.CodeInternal
	switch {
	case errors.Is(err, snapshot.ErrNotLoaded), errors.Is(err, matchquery.ErrTableMissing):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	}

	zerolog.Ctx(ctx).Error().Err(err).Str("code", code.String()).Msg("request failed")
	return connect.NewError(code, err)
}

// NewCricketQueryHandler builds the HTTP handler serving every CricketQuery
// procedure and returns the path prefix to mount it on.
func NewCricketQueryHandler(s *CricketServer, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ResolvePlayerProcedure, connect.NewUnaryHandler(ResolvePlayerProcedure, s.ResolvePlayer, opts...))
	mux.Handle(SearchMatchesProcedure, connect.NewUnaryHandler(SearchMatchesProcedure, s.SearchMatches, opts...))
	mux.Handle(ClassifyQueryProcedure, connect.NewUnaryHandler(ClassifyQueryProcedure, s.ClassifyQuery, opts...))
	mux.Handle(ClassifyQueriesProcedure, connect.NewUnaryHandler(ClassifyQueriesProcedure, s.ClassifyQueries, opts...))

	return CricketQueryPath, mux
}
