// Package letters generates a batch of advocacy letters, one per candidate,
// isolating failures so that every candidate always receives an entry.
package letters

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/speak-out/internal/composer"
	"github.com/jonathan/speak-out/internal/insights"
	"github.com/jonathan/speak-out/internal/types"
)

const (
	// PreviousConcernSentinel asks for the caller's previous concern to be reused.
	PreviousConcernSentinel = "your previous concern"
	// GenericConcern is used when no concern can be resolved.
	GenericConcern = "accountability, transparency and representation"

	defaultWorkers      = 4
	defaultAuditTimeout = 10 * time.Second
)

// LetterComposer writes one letter for a candidate.
type LetterComposer interface {
	Compose(candidate types.Candidate, in composer.Input) (string, error)
}

// Options configure one generation call.
type Options struct {
	types.LetterRequest

	// Chamber, Electorate and State describe the user's selection for the
	// audit log. Blank values are taken from the first candidate.
	Chamber    types.Chamber
	Electorate string
	State      string
}

// Config holds Generator dependencies. Zero values select defaults.
type Config struct {
	Primary      LetterComposer
	Fallback     LetterComposer
	Audit        AuditSink
	Logger       *zap.Logger
	Workers      int
	AuditTimeout time.Duration
}

// Generator runs the per-candidate fallback chain.
type Generator struct {
	primary      LetterComposer
	fallback     LetterComposer
	audit        AuditSink
	logger       *zap.Logger
	workers      int
	auditTimeout time.Duration

	auditWG sync.WaitGroup
}

// NewGenerator creates a Generator from cfg.
func NewGenerator(cfg Config) *Generator {
	g := &Generator{
		primary:      cfg.Primary,
		fallback:     cfg.Fallback,
		audit:        cfg.Audit,
		logger:       cfg.Logger,
		workers:      cfg.Workers,
		auditTimeout: cfg.AuditTimeout,
	}
	if g.primary == nil {
		g.primary = composer.New(nil, nil)
	}
	if g.fallback == nil {
		g.fallback = composer.NewLegacy(nil, nil)
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	if g.workers <= 0 {
		g.workers = defaultWorkers
	}
	if g.auditTimeout <= 0 {
		g.auditTimeout = defaultAuditTimeout
	}
	return g
}

// ResolveConcern returns concern, or previous when concern is blank or the
// sentinel, or GenericConcern when neither is usable.
func ResolveConcern(concern, previous string) string {
	trimmed := strings.TrimSpace(concern)
	if trimmed != "" && trimmed != PreviousConcernSentinel {
		return concern
	}
	if prev := strings.TrimSpace(previous); prev != "" && prev != PreviousConcernSentinel {
		return previous
	}
	return GenericConcern
}

// Generate writes one letter per candidate. It returns an error only when no
// letter can be attempted at all; individual candidate failures are reported
// through each Result's Outcome.
func (g *Generator) Generate(ctx context.Context, candidates []types.Candidate, opts Options) (*Batch, error) {
	if err := opts.Validate(); err != nil {
		return nil, &OptionsError{Message: "request failed validation", Cause: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &OptionsError{Message: "context done before generation", Cause: err}
	}

	req := opts.LetterRequest.WithDefaults()
	concern := ResolveConcern(req.Concern, req.PreviousConcern)
	batch := &Batch{ID: uuid.New().String(), Results: make([]Result, len(candidates))}

	g.logAsync(ctx, g.auditEntry(batch.ID, candidates, opts, req, concern))

	var insight string
	if strings.TrimSpace(req.UploadedContent) != "" {
		insight = insights.Extract(req.UploadedContent, concern)
	}

	in := composer.Input{
		Concern:            concern,
		Insights:           insight,
		Stance:             req.Stance,
		Tone:               req.Tone,
		PersonalExperience: req.PersonalExperience,
		PolicyIdeas:        req.PolicyIdeas,
		Sender:             req.Sender,
	}

	var eg errgroup.Group
	eg.SetLimit(g.workers)
	for i := range candidates {
		eg.Go(func() error {
			batch.Results[i] = g.composeOne(candidates[i], in)
			return nil
		})
	}
	_ = eg.Wait()

	g.logger.Info("letters generated",
		zap.String("batch_id", batch.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("composed", batch.Count(OutcomeComposed)),
		zap.Int("fallback", batch.Count(OutcomeComposedViaFallback)),
		zap.Int("failed", batch.Count(OutcomeFailed)),
	)

	return batch, nil
}

// GenerateLetters is Generate reduced to the id to letter mapping. Any
// batch-level failure yields an empty mapping.
func (g *Generator) GenerateLetters(ctx context.Context, candidates []types.Candidate, opts Options) map[string]string {
	batch, err := g.Generate(ctx, candidates, opts)
	if err != nil {
		g.logger.Error("letter generation failed", zap.Error(err))
		return map[string]string{}
	}
	return batch.Letters()
}

// Regenerate writes a fresh letter for a single candidate.
func (g *Generator) Regenerate(ctx context.Context, candidate types.Candidate, opts Options) (Result, error) {
	batch, err := g.Generate(ctx, []types.Candidate{candidate}, opts)
	if err != nil {
		return Result{}, err
	}
	return batch.Results[0], nil
}

// Wait blocks until every pending audit write has finished.
func (g *Generator) Wait() {
	g.auditWG.Wait()
}

// composeOne runs primary, then fallback, then the placeholder.
func (g *Generator) composeOne(candidate types.Candidate, in composer.Input) Result {
	result := Result{CandidateID: candidate.ID}

	letter, err := safeCompose(g.primary, candidate, in)
	if err == nil {
		result.Letter, result.Outcome = letter, OutcomeComposed
		return result
	}
	g.logger.Warn("primary composer failed, using legacy composer",
		zap.String("candidate_id", candidate.ID), zap.Error(err))

	reduced := composer.Input{
		Concern:  in.Concern,
		Insights: in.Insights,
		Tone:     in.Tone,
		Sender:   in.Sender,
	}
	letter, err = safeCompose(g.fallback, candidate, reduced)
	if err == nil {
		result.Letter, result.Outcome = letter, OutcomeComposedViaFallback
		return result
	}
	g.logger.Error("legacy composer failed",
		zap.String("candidate_id", candidate.ID), zap.Error(err))

	result.Letter, result.Outcome, result.Err = Placeholder(candidate), OutcomeFailed, err
	return result
}

func safeCompose(c LetterComposer, candidate types.Candidate, in composer.Input) (letter string, err error) {
	defer func() {
		if r := recover(); r != nil {
			letter, err = "", &PanicError{Value: r}
		}
	}()
	return c.Compose(candidate, in)
}

func (g *Generator) auditEntry(batchID string, candidates []types.Candidate, opts Options, req types.LetterRequest, concern string) AuditEntry {
	entry := AuditEntry{
		BatchID:        batchID,
		Chamber:        opts.Chamber,
		Electorate:     opts.Electorate,
		State:          opts.State,
		CandidateCount: len(candidates),
		Concern:        concern,
		Tone:           req.Tone,
		Stance:         req.Stance,
		RequestedAt:    time.Now().UTC(),
	}
	if len(candidates) > 0 {
		first := candidates[0]
		if entry.Chamber == "" {
			entry.Chamber = first.Chamber
		}
		if entry.Electorate == "" {
			entry.Electorate = first.Division
		}
		if entry.State == "" {
			entry.State = first.State
		}
	}
	return entry
}

// logAsync starts the audit write and returns without waiting for it.
func (g *Generator) logAsync(ctx context.Context, entry AuditEntry) {
	if g.audit == nil {
		return
	}
	g.auditWG.Add(1)
	go func() {
		defer g.auditWG.Done()
		defer func() {
			if r := recover(); r != nil {
				g.logger.Warn("audit log write panicked", zap.Any("panic", r))
			}
		}()

		auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.auditTimeout)
		defer cancel()

		if err := g.audit.LogGeneration(auditCtx, entry); err != nil {
			g.logger.Warn("audit log write failed",
				zap.String("batch_id", entry.BatchID), zap.Error(err))
		}
	}()
}
