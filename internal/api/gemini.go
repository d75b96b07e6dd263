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
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-1.5-flash"
)

type GeminiClient struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	client      *fasthttp.Client
	retryDelay  time.Duration
}

func NewGeminiClient(cfg *config.Config) *GeminiClient {
	baseURL := cfg.LLMBaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	model := cfg.LLMModel
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiClient{
		apiKey:      cfg.LLMAPIKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		maxTokens:   cfg.LLMMaxTokens,
		temperature: cfg.LLMTemperature,
		client:      newHTTPClient(),
		retryDelay:  constants.LLMRetryDelay,
	}
}

func (c *GeminiClient) ProviderName() string {
	return "Gemini"
}

func (c *GeminiClient) FormatMessages(system, user string) []Message {
	return formatMessages(system, user)
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig"`
}

// toGeminiRequest moves system messages into systemInstruction and renames
// the assistant role to "model".
func (c *GeminiClient) toGeminiRequest(messages []Message) geminiRequest {
	var req geminiRequest
	var system []geminiPart

	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, geminiPart{Text: m.Content})
		case RoleAssistant:
			req.Contents = append(req.Contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: m.Content}}})
		default:
			req.Contents = append(req.Contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: m.Content}}})
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = &geminiContent{Parts: system}
	}

	req.GenerationConfig.Temperature = c.temperature
	req.GenerationConfig.MaxOutputTokens = c.maxTokens
	return req
}

func (c *GeminiClient) ChatCompletion(ctx context.Context, messages []Message) (*Completion, error) {
	body, err := json.Marshal(c.toGeminiRequest(messages))
	if err != nil {
		return nil, fmt.Errorf("failed to encode gemini request: %w", err)
	}

	raw, err := doRequest(ctx, c.client, httpRequest{
		provider:   c.ProviderName(),
		url:        fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model),
		headers:    map[string]string{"x-goog-api-key": c.apiKey},
		body:       body,
		retryDelay: c.retryDelay,
	})
	if err != nil {
		return nil, err
	}

	parts := gjson.GetBytes(raw, "candidates.0.content.parts.#.text")
	if len(parts.Array()) == 0 {
		return nil, fmt.Errorf("%s response has no candidates", c.ProviderName())
	}

	var text strings.Builder
	for _, p := range parts.Array() {
		text.WriteString(p.String())
	}

	usage := gjson.GetBytes(raw, "usageMetadata")
	return &Completion{
		Content: text.String(),
		Usage: Usage{
			PromptTokens:     int(usage.Get("promptTokenCount").Int()),
			CompletionTokens: int(usage.Get("candidatesTokenCount").Int()),
			TotalTokens:      int(usage.Get("totalTokenCount").Int()),
		},
	}, nil
}
