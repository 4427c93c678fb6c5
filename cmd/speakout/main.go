// Package main provides the speakout CLI: letter generation, concern analysis
// and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "speakout",
	Short: "Write letters to parliamentary candidates about the issues you care about",
	Long: "speakout composes a personalised letter for every candidate in an electorate from a " +
		"short statement of concern, an optional supporting document, and a chosen tone and stance.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
