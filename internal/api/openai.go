package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cricket-query/internal/config"
	"cricket-query/internal/constants"

	"github.com/tidwall/gjson"
	"github.com/valyala/fasthttp"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// OpenAIClient talks to an OpenAI compatible chat completions endpoint.
// Gateways that speak the same API are reached through LLM_BASE_URL.
type OpenAIClient struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	client      *fasthttp.Client
	retryDelay  time.Duration
}

func NewOpenAIClient(cfg *config.Config) *OpenAIClient {
	baseURL := cfg.LLMBaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	model := cfg.LLMModel
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIClient{
		apiKey:      cfg.LLMAPIKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		maxTokens:   cfg.LLMMaxTokens,
		temperature: cfg.LLMTemperature,
		client:      newHTTPClient(),
		retryDelay:  constants.LLMRetryDelay,
	}
}

func (c *OpenAIClient) ProviderName() string {
	return "OpenAI"
}

func (c *OpenAIClient) FormatMessages(system, user string) []Message {
	return formatMessages(system, user)
}

type openAIRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

func (c *OpenAIClient) ChatCompletion(ctx context.Context, messages []Message) (*Completion, error) {
	body, err := json.Marshal(openAIRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	raw, err := doRequest(ctx, c.client, httpRequest{
		provider:   c.ProviderName(),
		url:        c.baseURL + "/chat/completions",
		headers:    map[string]string{"Authorization": "Bearer " + c.apiKey},
		body:       body,
		retryDelay: c.retryDelay,
	})
	if err != nil {
		return nil, err
	}

	content := gjson.GetBytes(raw, "choices.0.message.content")
	if !content.Exists() {
		return nil, fmt.Errorf("%s response has no message content", c.ProviderName())
	}

	usage := gjson.GetBytes(raw, "usage")
	return &Completion{
		Content: content.String(),
		Usage: Usage{
			PromptTokens:     int(usage.Get("prompt_tokens").Int()),
			CompletionTokens: int(usage.Get("completion_tokens").Int()),
			TotalTokens:      int(usage.Get("total_tokens").Int()),
		},
	}, nil
}
