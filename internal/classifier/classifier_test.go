package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"cricket-query/internal/api"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu      sync.Mutex
	prompts []string
	answer  func(prompt string) (string, error)
	usage   api.Usage
}

func (f *fakeProvider) ProviderName() string { return "fake" }

func (f *fakeProvider) FormatMessages(system, user string) []api.Message {
	return []api.Message{
		{Role: api.RoleSystem, Content: system},
		{Role: api.RoleUser, Content: user},
	}
}

func (f *fakeProvider) ChatCompletion(_ context.Context, messages []api.Message) (*api.Completion, error) {
	prompt := messages[len(messages)-1].Content

	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	content, err := f.answer(prompt)
	if err != nil {
		return nil, err
	}
	return &api.Completion{Content: content, Usage: f.usage}, nil
}

func answering(content string) *fakeProvider {
	return &fakeProvider{
		answer: func(string) (string, error) { return content, nil },
		usage:  api.Usage{PromptTokens: 100, CompletionTokens: 40, TotalTokens: 140},
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("who is better, kohli or root?")

	assert.Contains(t, prompt, `Query: "who is better, kohli or root?"`)
	for i, tool := range Tools {
		assert.Contains(t, prompt, tool.Key+": "+tool.Description)
		if i > 0 {
			assert.Less(t, strings.Index(prompt, Tools[i-1].Key+":"), strings.Index(prompt, tool.Key+":"))
		}
	}
	assert.Contains(t, prompt, `"tools_needed"`)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: ` {"a": 1} `, want: `{"a": 1}`},
		{name: "json fence", in: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "bare fence", in: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "fence without tag line", in: "```{\"a\": 1}\n```", want: `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}

func TestClassify(t *testing.T) {
	p := answering("```json\n" + `{
		"tools_needed": ["database_facts", "visualization"],
		"reasoning": "needs numbers and a chart",
		"tool_instructions": {
			"database_facts": {"sql_requirement": "test averages of kohli and root"},
			"visualization": {"chart_type": "bar"}
		},
		"confidence": 0.9,
		"query_type": "factual"
	}` + "\n```")

	c := New(p, zerolog.Nop())
	got := c.Classify(context.Background(), "compare kohli and root test averages in a chart")

	require.True(t, got.Success)
	assert.Empty(t, got.Error)
	assert.Equal(t, "compare kohli and root test averages in a chart", got.OriginalQuery)
	assert.Equal(t, []string{ToolDatabaseFacts, ToolVisualization}, got.ToolsNeeded)
	assert.Equal(t, "needs numbers and a chart", got.Reasoning)
	assert.InDelta(t, 0.9, got.Confidence, 1e-9)
	assert.Equal(t, "factual", got.QueryType)
	assert.Equal(t, 140, got.Usage.TotalTokens)

	require.Len(t, got.ToolSummaries, 2)
	assert.Equal(t, ToolDatabaseFacts, got.ToolSummaries[0].Tool)
	assert.Equal(t, "Database Facts Tool", got.ToolSummaries[0].Info.Name)
	assert.JSONEq(t, `{"sql_requirement": "test averages of kohli and root"}`, string(got.ToolSummaries[0].Instructions))
	assert.JSONEq(t, `{"chart_type": "bar"}`, string(got.ToolSummaries[1].Instructions))

	require.Len(t, p.prompts, 1)
	assert.Contains(t, p.prompts[0], "compare kohli and root")
}

func TestClassifyDefaults(t *testing.T) {
	tests := []struct {
		name          string
		answer        string
		wantTools     []string
		wantReasoning string
		wantSummaries []string
	}{
		{
			name:          "missing tools and reasoning",
			answer:        `{"confidence": 0.4}`,
			wantTools:     []string{ToolOpinionRAG},
			wantReasoning: "Fallback classification",
			wantSummaries: []string{ToolOpinionRAG},
		},
		{
			name:          "empty tool list is kept",
			answer:        `{"tools_needed": [], "reasoning": "nothing fits"}`,
			wantTools:     []string{},
			wantReasoning: "nothing fits",
			wantSummaries: []string{},
		},
		{
			name:          "unknown tools are left out of summaries",
			answer:        `{"tools_needed": ["live_data", "astrology"], "reasoning": "r"}`,
			wantTools:     []string{ToolLiveData, "astrology"},
			wantReasoning: "r",
			wantSummaries: []string{ToolLiveData},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(answering(tt.answer), zerolog.Nop()).Classify(context.Background(), "q")

			require.True(t, got.Success)
			assert.Equal(t, tt.wantTools, got.ToolsNeeded)
			assert.Equal(t, tt.wantReasoning, got.Reasoning)
			assert.NotNil(t, got.ToolInstructions)

			tools := make([]string, 0, len(got.ToolSummaries))
			for _, s := range got.ToolSummaries {
				tools = append(tools, s.Tool)
				assert.Nil(t, s.Instructions)
			}
			assert.Equal(t, tt.wantSummaries, tools)
		})
	}
}

func TestClassifyFallback(t *testing.T) {
	tests := []struct {
		name      string
		provider  api.Provider
		wantError string
		wantUsage int
	}{
		{
			name:      "no provider",
			provider:  nil,
			wantError: "llm provider not configured",
		},
		{
			name: "provider error",
			provider: &fakeProvider{answer: func(string) (string, error) {
				return "", errors.New("OpenAI API error: 401 unauthorized")
			}},
			wantError: "OpenAI API error: 401 unauthorized",
		},
		{
			name:      "unparseable answer",
			provider:  answering("I think you should use opinion_rag."),
			wantError: "invalid classification JSON",
			wantUsage: 140,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.provider, zerolog.Nop())
			assert.Equal(t, tt.provider != nil, c.Enabled())

			got := c.Classify(context.Background(), "why did england lose?")

			assert.False(t, got.Success)
			assert.Contains(t, got.Error, tt.wantError)
			assert.Equal(t, "why did england lose?", got.OriginalQuery)
			assert.Equal(t, []string{ToolOpinionRAG}, got.ToolsNeeded)
			assert.Equal(t, "Fallback due to classification error", got.Reasoning)
			assert.Empty(t, got.ToolSummaries)
			assert.Equal(t, tt.wantUsage, got.Usage.TotalTokens)
		})
	}
}

func TestClassifyMany(t *testing.T) {
	p := &fakeProvider{answer: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "live"):
			return `{"tools_needed": ["live_data"], "reasoning": "live"}`, nil
		case strings.Contains(prompt, "broken"):
			return "", errors.New("boom")
		default:
			return `{"tools_needed": ["historical_match"], "reasoning": "past"}`, nil
		}
	}}

	queries := []string{"live score please", "2019 world cup final", "broken query", "ashes 2005 second test"}
	got := New(p, zerolog.Nop()).ClassifyMany(context.Background(), queries)

	require.Len(t, got, len(queries))
	for i, q := range queries {
		assert.Equal(t, q, got[i].OriginalQuery)
	}
	assert.Equal(t, []string{ToolLiveData}, got[0].ToolsNeeded)
	assert.Equal(t, []string{ToolHistoricalMatch}, got[1].ToolsNeeded)
	assert.False(t, got[2].Success)
	assert.Equal(t, "boom", got[2].Error)
	assert.True(t, got[3].Success)
	assert.Len(t, p.prompts, len(queries))
}

func TestClassificationJSON(t *testing.T) {
	got := New(nil, zerolog.Nop()).Classify(context.Background(), "q")

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"original_query": "q",
		"tools_needed": ["opinion_rag"],
		"reasoning": "Fallback due to classification error",
		"tool_instructions": {},
		"tool_summaries": [],
		"classification_success": false,
		"error": "llm provider not configured",
		"llm_usage": {"prompt_tokens": 0, "completion_tokens": 0, "total_tokens": 0}
	}`, string(raw))
}
