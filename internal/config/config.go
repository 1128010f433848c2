// Package config provides configuration loading and validation for the CLI.
// Non-secret settings come from an optional JSON file merged with CLI flags;
// secrets are read from the environment only.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Defaults applied when neither the config file nor CLI flags set a value.
const (
	DefaultOutputDir  = "output"
	DefaultMaxRepos   = 50
	DefaultMonthsBack = 3
	DefaultWebResults = 10
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Collection
	MaxRepos   int `json:"max_repos,omitempty" validate:"gte=0,lte=1000"`   // Maximum repositories to collect
	MonthsBack int `json:"months_back,omitempty" validate:"gte=0,lte=120"`  // Recency window for repository search
	MinStars   int `json:"min_stars,omitempty" validate:"gte=0"`            // Minimum stars filter
	WebResults int `json:"web_results,omitempty" validate:"gte=0,lte=50"`   // Web results per search category

	// Analysis
	Provider string `json:"provider,omitempty" validate:"omitempty,oneof=openrouter gemini"` // Model provider
	Model    string `json:"model,omitempty"`                                                 // Model identifier override

	// Search
	SearchProvider string `json:"search_provider,omitempty" validate:"omitempty,oneof=tavily google"` // Web search provider

	// Behavior
	OutputDir  string `json:"output_dir,omitempty"`  // Directory for JSON output files
	SkipEnrich bool   `json:"skip_enrich,omitempty"` // Skip the enrichment pass (default: false = enrich)
	SkipRaw    bool   `json:"skip_raw,omitempty"`    // Skip the raw data snapshot
	Verbose    bool   `json:"verbose,omitempty"`     // Print detailed progress information

	// Persistence
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

var validate = validator.New()

// Validate checks that the configuration has valid values.
// Required secrets are not checked here; they come from the environment
// and are validated when clients are constructed.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: field %q failed %q validation", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.MaxRepos == 0 {
		result.MaxRepos = defaults.MaxRepos
	}
	if result.MonthsBack == 0 {
		result.MonthsBack = defaults.MonthsBack
	}
	if result.MinStars == 0 {
		result.MinStars = defaults.MinStars
	}
	if result.WebResults == 0 {
		result.WebResults = defaults.WebResults
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.SearchProvider == "" {
		result.SearchProvider = defaults.SearchProvider
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Booleans: true wins, either source can set them. The enrichment and
	// raw-snapshot toggles store the negative so the zero value means
	// enabled and a config file can still turn them off.
	result.SkipEnrich = result.SkipEnrich || defaults.SkipEnrich
	result.SkipRaw = result.SkipRaw || defaults.SkipRaw
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// ShouldEnrich returns whether the enrichment pass should run.
func (c *Config) ShouldEnrich() bool {
	return !c.SkipEnrich
}

// ShouldSaveRaw returns whether the raw data snapshot should be written.
func (c *Config) ShouldSaveRaw() bool {
	return !c.SkipRaw
}

// DefaultConfig returns the built-in defaults. Enrichment and the raw data
// snapshot are on unless skipped via the config file or CLI flags.
func DefaultConfig() Config {
	return Config{
		MaxRepos:   DefaultMaxRepos,
		MonthsBack: DefaultMonthsBack,
		WebResults: DefaultWebResults,
		OutputDir:  DefaultOutputDir,
	}
}
