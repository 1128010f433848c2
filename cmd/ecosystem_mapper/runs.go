package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ecosystem-mapper/internal/config"
	"github.com/jonathan/ecosystem-mapper/internal/db"
)

var runsCommand = &cobra.Command{
	Use:   "runs",
	Short: "List recent mapping runs recorded in the database",
	RunE:  runRunsCmd,
}

var (
	runsDatabaseURL string
	runsLimit       int
)

func init() {
	runsCommand.Flags().StringVar(&runsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	runsCommand.Flags().IntVar(&runsLimit, "limit", 20, "Number of runs to show")

	rootCmd.AddCommand(runsCommand)
}

func runRunsCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := runsDatabaseURL
	if databaseURL == "" {
		databaseURL = config.LoadSecrets().DatabaseURL
	}
	if databaseURL == "" {
		return fmt.Errorf("%s environment variable or --db-url flag is required", config.EnvDatabaseURL)
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(ctx, runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	for _, run := range runs {
		completed := "-"
		if run.CompletedAt != nil {
			completed = run.CompletedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%s  %-10s  %-30s  started %s  completed %s\n",
			run.ID, run.Status, run.Keyword,
			run.CreatedAt.Format("2006-01-02 15:04:05"), completed)
	}
	return nil
}
