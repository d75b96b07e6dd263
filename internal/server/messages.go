package server

import (
	"cricket-query/internal/classifier"
	"cricket-query/internal/matchquery"
)

type ResolvePlayerRequest struct {
	Name string `json:"name"`
}

type SearchMatchesRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type SearchMatchesResponse struct {
	Query   string              `json:"query"`
	Results []matchquery.Result `json:"results"`
}

type ClassifyQueryRequest struct {
	Query string `json:"query"`
}

type ClassifyQueriesRequest struct {
	Queries []string `json:"queries"`
}

type ClassifyQueriesResponse struct {
	Results []*classifier.Classification `json:"results"`
}
