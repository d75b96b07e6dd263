// Package classifier decides which tools of the question-answering pipeline
// should handle a free-text cricket query. The decision is delegated to an
// LLM; every failure degrades to a fallback classification instead of an
// error so callers can always route the query somewhere.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cricket-query/internal/api"
	"cricket-query/internal/constants"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrNoProvider = errors.New("llm provider not configured")

const (
	fallbackReasoning      = "Fallback classification"
	errorFallbackReasoning = "Fallback due to classification error"
)

type ToolSummary struct {
	Tool         string          `json:"tool"`
	Info         Tool            `json:"info"`
	Instructions json.RawMessage `json:"instructions,omitempty"`
}

type Classification struct {
	OriginalQuery    string                     `json:"original_query"`
	ToolsNeeded      []string                   `json:"tools_needed"`
	Reasoning        string                     `json:"reasoning"`
	ToolInstructions map[string]json.RawMessage `json:"tool_instructions"`
	Confidence       float64                    `json:"confidence,omitempty"`
	QueryType        string                     `json:"query_type,omitempty"`
	ToolSummaries    []ToolSummary              `json:"tool_summaries"`
	Success          bool                       `json:"classification_success"`
	Error            string                     `json:"error,omitempty"`
	Usage            api.Usage                  `json:"llm_usage"`
}

// modelAnswer mirrors the JSON the model is asked to produce. Pointers tell
// an absent field apart from an empty one.
type modelAnswer struct {
	ToolsNeeded      []string                   `json:"tools_needed"`
	Reasoning        *string                    `json:"reasoning"`
	ToolInstructions map[string]json.RawMessage `json:"tool_instructions"`
	Confidence       float64                    `json:"confidence"`
	QueryType        string                     `json:"query_type"`
}

type Classifier struct {
	provider    api.Provider
	logger      zerolog.Logger
	concurrency int
}

// New accepts a nil provider; Classify then always falls back.
func New(provider api.Provider, logger zerolog.Logger) *Classifier {
	return &Classifier{
		provider:    provider,
		logger:      logger,
		concurrency: constants.ClassifyConcurrency,
	}
}

func (c *Classifier) Enabled() bool {
	return c.provider != nil
}

func (c *Classifier) Classify(ctx context.Context, query string) *Classification {
	if c.provider == nil {
		return fallback(query, ErrNoProvider)
	}

	messages := c.provider.FormatMessages(systemPrompt, BuildPrompt(query))
	completion, err := c.provider.ChatCompletion(ctx, messages)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("provider", c.provider.ProviderName()).
			Str("query", query).
			Msg("classification request failed")
		return fallback(query, err)
	}

	result, err := parse(completion.Content, query)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("provider", c.provider.ProviderName()).
			Str("query", query).
			Msg("failed to parse classification")
		result = fallback(query, err)
	}
	result.Usage = completion.Usage

	c.logger.Debug().
		Str("query", query).
		Strs("tools", result.ToolsNeeded).
		Bool("success", result.Success).
		Int("total_tokens", completion.Usage.TotalTokens).
		Msg("query classified")

	return result
}

// ClassifyMany classifies queries concurrently. Results keep input order.
func (c *Classifier) ClassifyMany(ctx context.Context, queries []string) []*Classification {
	results := make([]*Classification, len(queries))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			results[i] = c.Classify(ctx, q)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func parse(content, query string) (*Classification, error) {
	var answer modelAnswer
	if err := json.Unmarshal([]byte(stripFences(content)), &answer); err != nil {
		return nil, fmt.Errorf("invalid classification JSON: %w", err)
	}

	result := &Classification{
		OriginalQuery:    query,
		ToolsNeeded:      answer.ToolsNeeded,
		Reasoning:        fallbackReasoning,
		ToolInstructions: answer.ToolInstructions,
		Confidence:       answer.Confidence,
		QueryType:        answer.QueryType,
		Success:          true,
	}
	if result.ToolsNeeded == nil {
		result.ToolsNeeded = []string{ToolOpinionRAG}
	}
	if answer.Reasoning != nil {
		result.Reasoning = *answer.Reasoning
	}
	if result.ToolInstructions == nil {
		result.ToolInstructions = map[string]json.RawMessage{}
	}

	result.ToolSummaries = make([]ToolSummary, 0, len(result.ToolsNeeded))
	for _, key := range result.ToolsNeeded {
		tool, ok := LookupTool(key)
		if !ok {
			continue
		}
		result.ToolSummaries = append(result.ToolSummaries, ToolSummary{
			Tool:         key,
			Info:         tool,
			Instructions: result.ToolInstructions[key],
		})
	}

	return result, nil
}

func fallback(query string, err error) *Classification {
	return &Classification{
		OriginalQuery:    query,
		ToolsNeeded:      []string{ToolOpinionRAG},
		Reasoning:        errorFallbackReasoning,
		ToolInstructions: map[string]json.RawMessage{},
		ToolSummaries:    []ToolSummary{},
		Success:          false,
		Error:            err.Error(),
	}
}
