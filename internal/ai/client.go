package ai

import (
	openai "github.com/sashabaranov/go-openai"
)

// NewClient builds a client for any OpenAI-compatible API (Groq, OpenAI,
// DashScope compatible mode, local gateways).
func NewClient(baseURL, apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
