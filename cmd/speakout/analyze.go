package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/speak-out/internal/observability"
	"github.com/jonathan/speak-out/internal/topics"
)

var (
	analyzeConcern string
	analyzeJSON    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Show how a concern is classified",
	Long: `Normalise a concern, classify it into a topic, and show the paraphrase,
subject and context phrases that would be used in a letter.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runAnalyze(analyzeConcern, analyzeJSON, cmd.OutOrStdout())
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConcern, "concern", "", "The issue to analyze (required)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON")

	if err := analyzeCmd.MarkFlagRequired("concern"); err != nil {
		panic(fmt.Sprintf("failed to mark concern flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(concern string, asJSON bool, out io.Writer) error {
	analysis := topics.Analyze(concern)

	if !asJSON {
		observability.NewPrinter(out).PrintAnalysis(&analysis)
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(analysis); err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	return nil
}
