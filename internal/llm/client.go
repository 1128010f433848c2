// Package llm provides centralized LLM configuration and client abstractions.
// This package enables easy switching between model-routing providers.
package llm

import (
	"context"
	"fmt"
)

// Provider represents an LLM provider.
type Provider string

// Provider constants define supported LLM providers.
const (
	// ProviderOpenRouter routes completions through the OpenRouter API.
	ProviderOpenRouter Provider = "openrouter"
	// ProviderGemini calls the Google Gemini API directly.
	ProviderGemini Provider = "gemini"
)

// DefaultResearchModel is used when no model is configured for OpenRouter.
const DefaultResearchModel = "google/gemini-3-flash-preview"

// DefaultGeminiModel is used when no model is configured for Gemini.
const DefaultGeminiModel = "gemini-2.5-flash"

// Config holds the model configuration for the application.
type Config struct {
	Provider Provider
	Model    string
}

// DefaultConfig returns the default configuration (OpenRouter).
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOpenRouter,
		Model:    DefaultResearchModel,
	}
}

// Client is an abstraction over LLM providers.
type Client interface {
	// GenerateJSON generates a JSON-formatted completion for the given
	// system and user prompts. maxTokens bounds the completion length.
	GenerateJSON(ctx context.Context, system, prompt string, maxTokens int) (string, error)
	// Model returns the configured model identifier.
	Model() string
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a new LLM client based on configuration.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderOpenRouter:
		return NewOpenRouterClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", config.Provider)
	}
}
