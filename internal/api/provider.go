// Package api holds the clients for the hosted LLM backends used to classify
// queries. Every backend implements Provider.
package api

import (
	"context"
	"fmt"
	"strings"

	"cricket-query/internal/config"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Completion struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

type Provider interface {
	FormatMessages(system, user string) []Message
	ChatCompletion(ctx context.Context, messages []Message) (*Completion, error)
	ProviderName() string
}

// APIError is a non-200 answer from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %d %s", e.Provider, e.StatusCode, e.Body)
}

// Temporary reports whether the request may succeed when retried.
func (e *APIError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

func formatMessages(system, user string) []Message {
	messages := make([]Message, 0, 2)
	if system != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: system})
	}
	return append(messages, Message{Role: RoleUser, Content: user})
}

// NewProvider selects the backend named by LLM_PROVIDER. Without an API key
// it returns a nil Provider and classification runs in fallback mode.
func NewProvider(cfg *config.Config) (Provider, error) {
	if cfg.LLMAPIKey == "" {
		return nil, nil
	}

	switch strings.ToLower(cfg.LLMProvider) {
	case "openai", "":
		return NewOpenAIClient(cfg), nil
	case "gemini":
		return NewGeminiClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
