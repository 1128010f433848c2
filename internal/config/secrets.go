package config

import "os"

// Environment variable names for secrets. These are never read from the
// config file so credentials stay out of version control.
const (
	EnvGitHubToken      = "GITHUB_PAT"
	EnvTavilyAPIKey     = "TAVILY_API_KEY"
	EnvOpenRouterAPIKey = "OPENROUTER_API_KEY"
	EnvGeminiAPIKey     = "GEMINI_API_KEY"
	EnvGoogleSearchKey  = "GOOGLE_SEARCH_API_KEY"
	EnvGoogleSearchCX   = "GOOGLE_SEARCH_CX"
	EnvResearchModel    = "OR_RESEARCH_MODEL_NAME"
	EnvImageModel       = "OR_IMAGE_MODEL_NAME"
	EnvDatabaseURL      = "DATABASE_URL"
)

// Secrets holds credentials loaded from the environment.
type Secrets struct {
	GitHubToken      string
	TavilyAPIKey     string
	OpenRouterAPIKey string
	GeminiAPIKey     string
	GoogleSearchKey  string
	GoogleSearchCX   string
	ResearchModel    string
	ImageModel       string // accepted for forward compatibility, no current consumer
	DatabaseURL      string
}

// LoadSecrets reads all secrets from the environment. Missing values are
// left empty; each client validates the credentials it actually needs.
func LoadSecrets() Secrets {
	return Secrets{
		GitHubToken:      os.Getenv(EnvGitHubToken),
		TavilyAPIKey:     os.Getenv(EnvTavilyAPIKey),
		OpenRouterAPIKey: os.Getenv(EnvOpenRouterAPIKey),
		GeminiAPIKey:     os.Getenv(EnvGeminiAPIKey),
		GoogleSearchKey:  os.Getenv(EnvGoogleSearchKey),
		GoogleSearchCX:   os.Getenv(EnvGoogleSearchCX),
		ResearchModel:    os.Getenv(EnvResearchModel),
		ImageModel:       os.Getenv(EnvImageModel),
		DatabaseURL:      os.Getenv(EnvDatabaseURL),
	}
}
