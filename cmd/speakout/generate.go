package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/speak-out/internal/composer"
	"github.com/jonathan/speak-out/internal/ingestion"
	"github.com/jonathan/speak-out/internal/insights"
	"github.com/jonathan/speak-out/internal/letters"
	"github.com/jonathan/speak-out/internal/logging"
	"github.com/jonathan/speak-out/internal/observability"
	"github.com/jonathan/speak-out/internal/quality"
	"github.com/jonathan/speak-out/internal/schemas"
	"github.com/jonathan/speak-out/internal/statistics"
	"github.com/jonathan/speak-out/internal/topics"
	"github.com/jonathan/speak-out/internal/types"
)

// echoWords is the phrase length checked when reporting echoed concern text.
const echoWords = 4

type generateOptions struct {
	CandidatesPath     string
	RequestPath        string
	Concern            string
	PreviousConcern    string
	Tone               string
	Stance             string
	DocumentPath       string
	PersonalExperience string
	PolicyIdeas        string
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	OutputPath         string
	Seed               uint64
	Workers            int
	Verbose            bool
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one letter per candidate",
	Long: `Generate a personalised letter for every candidate in a JSON candidates file.

The candidates file is validated against the candidates schema before any
letter is written. Letter options may come from a JSON request file (--request),
validated against the letter request schema; flags override its fields.
Letters are written as a JSON object keyed by candidate id.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGenerate(cmd.Context(), genOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genOpts.CandidatesPath, "candidates", "c", "", "Path to candidates JSON file (required)")
	f.StringVarP(&genOpts.RequestPath, "request", "r", "", "Optional letter request JSON file")
	f.StringVar(&genOpts.Concern, "concern", "", "The issue you want to raise")
	f.StringVar(&genOpts.PreviousConcern, "previous-concern", "", "Concern from an earlier run, used when --concern is the sentinel")
	f.StringVar(&genOpts.Tone, "tone", "", "Letter tone: formal, passionate, direct, hopeful, empathetic, optimistic")
	f.StringVar(&genOpts.Stance, "stance", "", "Your stance: support, oppose, neutral, concerned")
	f.StringVarP(&genOpts.DocumentPath, "document", "d", "", "Optional supporting document (text or HTML)")
	f.StringVar(&genOpts.PersonalExperience, "personal-experience", "", "A short account of how the issue affects you")
	f.StringVar(&genOpts.PolicyIdeas, "policy-ideas", "", "Changes you would like to see")
	f.StringVar(&genOpts.FirstName, "first-name", "", "Sender first name")
	f.StringVar(&genOpts.LastName, "last-name", "", "Sender last name")
	f.StringVar(&genOpts.Email, "email", "", "Sender email")
	f.StringVar(&genOpts.Phone, "phone", "", "Sender phone")
	f.StringVarP(&genOpts.OutputPath, "out", "o", "", "Output file for letters JSON (default: stdout)")
	f.Uint64Var(&genOpts.Seed, "seed", 0, "Seed for supporting statistic selection (0 picks randomly)")
	f.IntVar(&genOpts.Workers, "workers", 0, "Parallel letter composition limit (0 uses the default)")
	f.BoolVarP(&genOpts.Verbose, "verbose", "v", false, "Print analysis, letters and quality checks to stderr")

	if err := generateCmd.MarkFlagRequired("candidates"); err != nil {
		panic(fmt.Sprintf("failed to mark candidates flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(ctx context.Context, opts generateOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logging.NewCLI(opts.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	candidates, err := loadCandidates(opts.CandidatesPath)
	if err != nil {
		return err
	}

	req, err := buildRequest(opts)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid letter options: %w", err)
	}

	var meta *ingestion.Metadata
	if opts.DocumentPath == "" && req.UploadedContent != "" {
		req.UploadedContent, meta, err = ingestion.Prepare(req.UploadedContent)
		if err != nil {
			return err
		}
	}
	if opts.DocumentPath != "" {
		req.UploadedContent, meta, err = ingestion.LoadFile(opts.DocumentPath)
		if err != nil {
			return err
		}
		logger.Debug("loaded document",
			zap.String("path", opts.DocumentPath),
			zap.Int("chars", meta.Chars),
			zap.Bool("truncated", meta.Truncated))
	}

	var stats *statistics.Provider
	if opts.Seed != 0 {
		stats = statistics.NewProvider(rand.New(rand.NewPCG(opts.Seed, opts.Seed)))
	}

	gen := letters.NewGenerator(letters.Config{
		Primary:  composer.New(stats, nil),
		Fallback: composer.NewLegacy(stats, nil),
		Logger:   logger,
		Workers:  opts.Workers,
	})
	defer gen.Wait()

	start := time.Now()
	batch, err := gen.Generate(ctx, candidates, letters.Options{LetterRequest: req})
	if err != nil {
		return err
	}
	logger.Debug("generated letters",
		zap.String("batch_id", batch.ID),
		zap.Int("count", len(batch.Results)),
		zap.Duration("elapsed", time.Since(start)))

	if opts.Verbose {
		concern := letters.ResolveConcern(req.Concern, req.PreviousConcern)
		printer := observability.NewPrinter(stderr)
		analysis := topics.Analyze(concern)
		printer.PrintAnalysis(&analysis)
		if meta != nil {
			printer.PrintDocument(meta, insights.Extract(req.UploadedContent, concern))
		}

		names := make(map[string]string, len(candidates))
		for _, c := range candidates {
			names[c.ID] = c.DisplayName()
		}
		printer.PrintBatch(batch, names)
		for _, r := range batch.Results {
			if r.Outcome == letters.OutcomeFailed {
				continue
			}
			printer.PrintQuality(r.CandidateID, quality.Inspect(r.Letter, concern, echoWords))
		}
	}

	return writeLetters(batch.Letters(), opts.OutputPath, stdout)
}

// buildRequest starts from the request file, if any, and applies every
// non-empty flag on top of it.
func buildRequest(opts generateOptions) (types.LetterRequest, error) {
	var req types.LetterRequest
	if opts.RequestPath != "" {
		if err := schemas.ValidateFile(schemas.LetterRequest, opts.RequestPath); err != nil {
			return req, err
		}
		data, err := os.ReadFile(opts.RequestPath)
		if err != nil {
			return req, fmt.Errorf("failed to read request file: %w", err)
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("failed to parse request file: %w", err)
		}
	}

	setIfNotEmpty(&req.Concern, opts.Concern)
	setIfNotEmpty(&req.PreviousConcern, opts.PreviousConcern)
	setIfNotEmpty(&req.PersonalExperience, opts.PersonalExperience)
	setIfNotEmpty(&req.PolicyIdeas, opts.PolicyIdeas)
	if opts.Tone != "" {
		req.Tone = types.Tone(opts.Tone)
	}
	if opts.Stance != "" {
		req.Stance = types.Stance(opts.Stance)
	}

	if opts.FirstName != "" || opts.LastName != "" || opts.Email != "" || opts.Phone != "" {
		if req.Sender == nil {
			req.Sender = &types.SenderDetails{}
		}
		setIfNotEmpty(&req.Sender.FirstName, opts.FirstName)
		setIfNotEmpty(&req.Sender.LastName, opts.LastName)
		setIfNotEmpty(&req.Sender.Email, opts.Email)
		setIfNotEmpty(&req.Sender.Phone, opts.Phone)
	}
	return req, nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// loadCandidates validates the file against the candidates schema and decodes it.
func loadCandidates(path string) ([]types.Candidate, error) {
	if err := schemas.ValidateFile(schemas.Candidates, path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates file: %w", err)
	}

	var candidates []types.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to parse candidates file: %w", err)
	}
	return candidates, nil
}

func writeLetters(out map[string]string, path string, stdout io.Writer) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal letters: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write letters file: %w", err)
	}
	return nil
}
