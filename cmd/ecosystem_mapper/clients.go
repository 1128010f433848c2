package main

import (
	"context"
	"fmt"

	"github.com/jonathan/ecosystem-mapper/internal/config"
	"github.com/jonathan/ecosystem-mapper/internal/llm"
	"github.com/jonathan/ecosystem-mapper/internal/taxonomy"
	"github.com/jonathan/ecosystem-mapper/internal/websearch"
)

// newSearcher builds the configured web search provider. Tavily is the
// default; the Google provider uses the Custom Search JSON API.
func newSearcher(ctx context.Context, cfg config.Config, secrets config.Secrets) (websearch.Searcher, error) {
	switch cfg.SearchProvider {
	case "", "tavily":
		return websearch.NewTavilyClient(secrets.TavilyAPIKey)
	case "google":
		if secrets.GoogleSearchKey == "" || secrets.GoogleSearchCX == "" {
			return nil, fmt.Errorf("%s and %s environment variables are required for the google search provider",
				config.EnvGoogleSearchKey, config.EnvGoogleSearchCX)
		}
		return websearch.NewGoogleSearcher(ctx, secrets.GoogleSearchKey, secrets.GoogleSearchCX)
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.SearchProvider)
	}
}

// newAnalyzer builds the model client and wraps it in a taxonomy analyzer.
// The caller must Close the returned client.
func newAnalyzer(ctx context.Context, cfg config.Config, secrets config.Secrets) (*taxonomy.Analyzer, llm.Client, error) {
	llmCfg := llm.DefaultConfig()
	if cfg.Provider != "" {
		llmCfg.Provider = llm.Provider(cfg.Provider)
	}
	if cfg.Model != "" {
		llmCfg.Model = cfg.Model
	} else if secrets.ResearchModel != "" && llmCfg.Provider == llm.ProviderOpenRouter {
		llmCfg.Model = secrets.ResearchModel
	}

	var apiKey string
	switch llmCfg.Provider {
	case llm.ProviderOpenRouter:
		apiKey = secrets.OpenRouterAPIKey
		if apiKey == "" {
			return nil, nil, fmt.Errorf("%s environment variable is required", config.EnvOpenRouterAPIKey)
		}
	case llm.ProviderGemini:
		apiKey = secrets.GeminiAPIKey
		if apiKey == "" {
			return nil, nil, fmt.Errorf("%s environment variable is required", config.EnvGeminiAPIKey)
		}
	}

	client, err := llm.NewClient(ctx, llmCfg, apiKey)
	if err != nil {
		return nil, nil, err
	}
	return taxonomy.NewAnalyzer(client), client, nil
}
