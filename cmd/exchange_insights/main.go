// Package main provides the entry point for the Exchange Insights HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "exchange_insights",
	Short: "Exchange Insights HTTP API Server",
	Long:  "Exchange Insights aggregates approved student exchange reports into per-city profiles, platform-wide statistics, and side-by-side comparisons via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
