// Package main provides the entry point for the Ecosystem Mapper CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ecosystem_mapper",
	Short: "Map a technology ecosystem into a structured taxonomy",
	Long:  "Ecosystem Mapper collects repositories and web resources for a technology keyword, then uses an LLM to produce a structured, validated taxonomy of the ecosystem.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
