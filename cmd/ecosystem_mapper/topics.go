package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ecosystem-mapper/internal/config"
	"github.com/jonathan/ecosystem-mapper/internal/github"
)

var topicsCommand = &cobra.Command{
	Use:   "topics <keyword>",
	Short: "Show trending repository topics for an ecosystem keyword",
	Long:  "Collects repositories for the keyword and prints the most common repository topics, a quick way to survey an ecosystem without a model call.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopicsCmd,
}

var (
	topicsMaxRepos int
	topicsLimit    int
)

func init() {
	topicsCommand.Flags().IntVar(&topicsMaxRepos, "max-repos", config.DefaultMaxRepos, "Maximum repositories to inspect")
	topicsCommand.Flags().IntVar(&topicsLimit, "limit", 20, "Number of topics to show")

	rootCmd.AddCommand(topicsCommand)
}

func runTopicsCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	keyword := args[0]

	secrets := config.LoadSecrets()
	collector, err := github.NewCollector(secrets.GitHubToken)
	if err != nil {
		return err
	}

	topics, err := collector.TrendingTopics(ctx, keyword, topicsMaxRepos)
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		fmt.Printf("No topics found for %q\n", keyword)
		return nil
	}

	if topicsLimit > 0 && len(topics) > topicsLimit {
		topics = topics[:topicsLimit]
	}

	fmt.Printf("Trending topics for %q:\n", keyword)
	for i, tc := range topics {
		fmt.Printf("%3d. %-30s %d repositories\n", i+1, tc.Topic, tc.Count)
	}
	return nil
}
