package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ecosystem-mapper/internal/config"
	"github.com/jonathan/ecosystem-mapper/internal/github"
	"github.com/jonathan/ecosystem-mapper/internal/pipeline"
)

var mapCommand = &cobra.Command{
	Use:   "map <keyword>",
	Short: "Run the full mapping pipeline for an ecosystem keyword",
	Long: `Collects GitHub repositories and web search results for the keyword, asks the
configured model to build a structured taxonomy, and writes timestamped JSON
output plus a stable latest file.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	Args: cobra.ExactArgs(1),
	RunE: runMapCmd,
}

var (
	mapConfigPath     string
	mapMaxRepos       int
	mapMonthsBack     int
	mapMinStars       int
	mapWebResults     int
	mapProvider       string
	mapModel          string
	mapSearchProvider string
	mapOutputDir      string
	mapSkipEnrich     bool
	mapSkipRaw        bool
	mapVerbose        bool
	mapDatabaseURL    string
)

func init() {
	// Config file flag (processed first)
	mapCommand.Flags().StringVar(&mapConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	mapCommand.Flags().IntVar(&mapMaxRepos, "max-repos", 0, "Maximum repositories to collect")
	mapCommand.Flags().IntVar(&mapMonthsBack, "months", 0, "Only include repositories created within this many months")
	mapCommand.Flags().IntVar(&mapMinStars, "min-stars", 0, "Minimum stars for collected repositories")
	mapCommand.Flags().IntVar(&mapWebResults, "web-results", 0, "Web results per search category")
	mapCommand.Flags().StringVar(&mapProvider, "provider", "", "Model provider: openrouter or gemini")
	mapCommand.Flags().StringVar(&mapModel, "model", "", "Model identifier override")
	mapCommand.Flags().StringVar(&mapSearchProvider, "search-provider", "", "Web search provider: tavily or google")
	mapCommand.Flags().StringVarP(&mapOutputDir, "out", "o", "", "Directory for JSON output files")
	mapCommand.Flags().BoolVar(&mapSkipEnrich, "skip-enrich", false, "Skip the second model pass that adds ecosystem insights")
	mapCommand.Flags().BoolVar(&mapSkipRaw, "skip-raw", false, "Do not write the raw data snapshot")
	mapCommand.Flags().BoolVarP(&mapVerbose, "verbose", "v", false, "Print detailed progress information")

	// Database URL for run persistence
	mapCommand.Flags().StringVar(&mapDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(mapCommand)
}

func runMapCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	keyword := args[0]

	cfg, err := resolveMapConfig(cmd)
	if err != nil {
		return err
	}

	secrets := config.LoadSecrets()
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = secrets.DatabaseURL
	}

	collector, err := github.NewCollector(secrets.GitHubToken)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		if remaining, limit, rlErr := collector.RateLimit(ctx); rlErr == nil {
			fmt.Printf("GitHub API rate limit: %d/%d remaining\n", remaining, limit)
		}
	}

	searcher, err := newSearcher(ctx, cfg, secrets)
	if err != nil {
		return err
	}

	analyzer, client, err := newAnalyzer(ctx, cfg, secrets)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	result, err := pipeline.Run(ctx, pipeline.RunOptions{
		Keyword:     keyword,
		MaxRepos:    cfg.MaxRepos,
		MonthsBack:  cfg.MonthsBack,
		MinStars:    cfg.MinStars,
		WebResults:  cfg.WebResults,
		Enrich:      cfg.ShouldEnrich(),
		SaveRaw:     cfg.ShouldSaveRaw(),
		Verbose:     cfg.Verbose,
		OutputDir:   cfg.OutputDir,
		DatabaseURL: cfg.DatabaseURL,
		Collector:   collector,
		Searcher:    searcher,
		Analyzer:    analyzer,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nEcosystem: %s\n", result.Taxonomy.EcosystemName)
	fmt.Printf("Categories: %d  Examples: %d (%d grounded in collected data)\n",
		len(result.Taxonomy.Categories), result.Taxonomy.ExampleCount(), result.GroundedExamples)
	if result.Degraded {
		fmt.Printf("Note: this run is partial; one data source was unavailable\n")
	}
	if result.RawDataPath != "" {
		fmt.Printf("Raw data: %s\n", result.RawDataPath)
	}
	fmt.Printf("Taxonomy: %s\n", result.SnapshotPath)
	fmt.Printf("Latest:   %s\n", result.LatestPath)
	return nil
}

// resolveMapConfig merges the config file, explicit CLI flags, and defaults,
// in increasing order of precedence for flags over file values.
func resolveMapConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if mapConfigPath != "" {
		loaded, err := config.LoadConfig(mapConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if mapVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", mapConfigPath)
		}
	}

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("max-repos") {
		cfg.MaxRepos = mapMaxRepos
	}
	if cmd.Flags().Changed("months") {
		cfg.MonthsBack = mapMonthsBack
	}
	if cmd.Flags().Changed("min-stars") {
		cfg.MinStars = mapMinStars
	}
	if cmd.Flags().Changed("web-results") {
		cfg.WebResults = mapWebResults
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = mapProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = mapModel
	}
	if cmd.Flags().Changed("search-provider") {
		cfg.SearchProvider = mapSearchProvider
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = mapOutputDir
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = mapVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = mapDatabaseURL
	}

	cfg = cfg.MergeWithDefaults(config.DefaultConfig())

	// Enrichment and the raw data snapshot are on by default; the skip flags
	// turn them off.
	if mapSkipEnrich {
		cfg.SkipEnrich = true
	}
	if mapSkipRaw {
		cfg.SkipRaw = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
