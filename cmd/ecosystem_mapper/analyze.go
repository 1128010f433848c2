package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/ecosystem-mapper/internal/config"
	"github.com/jonathan/ecosystem-mapper/internal/storage"
)

var analyzeCommand = &cobra.Command{
	Use:   "analyze <raw-data-file>",
	Short: "Regenerate a taxonomy from a saved raw data snapshot",
	Long: `Rebuilds the taxonomy offline from a previously saved raw data file, without
re-collecting from GitHub or web search. Useful for retrying after a model
failure or for comparing models on identical input.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyzeCmd,
}

var (
	analyzeProvider   string
	analyzeModel      string
	analyzeOutputDir  string
	analyzeSkipEnrich bool
)

func init() {
	analyzeCommand.Flags().StringVar(&analyzeProvider, "provider", "", "Model provider: openrouter or gemini")
	analyzeCommand.Flags().StringVar(&analyzeModel, "model", "", "Model identifier override")
	analyzeCommand.Flags().StringVarP(&analyzeOutputDir, "out", "o", config.DefaultOutputDir, "Directory for JSON output files")
	analyzeCommand.Flags().BoolVar(&analyzeSkipEnrich, "skip-enrich", false, "Skip the second model pass that adds ecosystem insights")

	rootCmd.AddCommand(analyzeCommand)
}

func runAnalyzeCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	data, err := storage.ReadRawData(args[0])
	if err != nil {
		return err
	}
	if data.Keyword == "" {
		return fmt.Errorf("raw data file %s has no keyword", args[0])
	}

	cfg := config.Config{Provider: analyzeProvider, Model: analyzeModel}
	if err := cfg.Validate(); err != nil {
		return err
	}
	secrets := config.LoadSecrets()

	analyzer, client, err := newAnalyzer(ctx, cfg, secrets)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	fmt.Printf("Regenerating taxonomy for %q from %s with %s...\n", data.Keyword, args[0], analyzer.Model())
	tax, err := analyzer.CreateTaxonomy(ctx, data.Keyword, data)
	if err != nil {
		return err
	}

	if !analyzeSkipEnrich {
		enriched, enrichErr := analyzer.Enrich(ctx, tax)
		if enrichErr != nil {
			fmt.Printf("Warning: enrichment failed, keeping base taxonomy: %v\n", enrichErr)
		} else {
			tax = enriched
		}
	}

	writer, err := storage.NewWriter(analyzeOutputDir)
	if err != nil {
		return err
	}
	snapshot, latest, err := writer.WriteTaxonomy(data.Keyword, tax, storage.Timestamp(time.Now()))
	if err != nil {
		return err
	}

	fmt.Printf("Categories: %d  Examples: %d\n", len(tax.Categories), tax.ExampleCount())
	fmt.Printf("Taxonomy: %s\n", snapshot)
	fmt.Printf("Latest:   %s\n", latest)
	return nil
}
