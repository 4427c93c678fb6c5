package letters

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jonathan/speak-out/internal/composer"
	"github.com/jonathan/speak-out/internal/statistics"
	"github.com/jonathan/speak-out/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// composerFunc adapts a function to LetterComposer.
type composerFunc func(types.Candidate, composer.Input) (string, error)

func (f composerFunc) Compose(c types.Candidate, in composer.Input) (string, error) {
	return f(c, in)
}

func echoComposer(prefix string) composerFunc {
	return func(c types.Candidate, _ composer.Input) (string, error) {
		return prefix + ":" + c.ID, nil
	}
}

func failFor(id string, next composerFunc) composerFunc {
	return func(c types.Candidate, in composer.Input) (string, error) {
		if c.ID == id {
			return "", errors.New("boom")
		}
		return next(c, in)
	}
}

type firstSource struct{}

func (firstSource) IntN(int) int { return 0 }

func threeCandidates() []types.Candidate {
	return []types.Candidate{
		{ID: "house-1", Name: "Jane Doe", Chamber: types.ChamberHouse, Division: "Wentworth", Role: types.RoleMP},
		{ID: "house-2", Name: "John Roe", Chamber: types.ChamberHouse, Division: "Wentworth", Role: types.RoleCandidate},
		{ID: "house-3", Name: "Kim Poe", Chamber: types.ChamberHouse, Division: "Wentworth", Role: types.RoleCandidate},
	}
}

func TestGenerate_IsolatesFailures(t *testing.T) {
	g := NewGenerator(Config{
		Primary:  failFor("house-2", echoComposer("primary")),
		Fallback: failFor("house-2", echoComposer("legacy")),
	})

	batch, err := g.Generate(context.Background(), threeCandidates(), Options{LetterRequest: types.LetterRequest{Concern: "housing"}})
	require.NoError(t, err)

	letters := batch.Letters()
	require.Len(t, letters, 3)
	assert.Equal(t, "primary:house-1", letters["house-1"])
	assert.Equal(t, "primary:house-3", letters["house-3"])
	assert.Equal(t, "Error generating letter for John Roe. Please try again.", letters["house-2"])

	assert.Equal(t, OutcomeFailed, batch.Results[1].Outcome)
	assert.Error(t, batch.Results[1].Err)
	assert.Equal(t, 2, batch.Count(OutcomeComposed))
}

func TestGenerate_FallbackGetsReducedInput(t *testing.T) {
	var fallbackInput composer.Input
	g := NewGenerator(Config{
		Primary: failFor("house-1", echoComposer("primary")),
		Fallback: composerFunc(func(c types.Candidate, in composer.Input) (string, error) {
			fallbackInput = in
			return "legacy:" + c.ID, nil
		}),
	})

	batch, err := g.Generate(context.Background(), threeCandidates()[:1], Options{LetterRequest: types.LetterRequest{
		Concern:            "housing",
		Tone:               types.TonePassionate,
		Stance:             types.StanceOppose,
		PersonalExperience: "story",
		PolicyIdeas:        "ideas",
	}})
	require.NoError(t, err)

	assert.Equal(t, OutcomeComposedViaFallback, batch.Results[0].Outcome)
	assert.Equal(t, "legacy:house-1", batch.Results[0].Letter)
	assert.Equal(t, "housing", fallbackInput.Concern)
	assert.Equal(t, types.TonePassionate, fallbackInput.Tone)
	assert.Empty(t, fallbackInput.Stance)
	assert.Empty(t, fallbackInput.PersonalExperience)
	assert.Empty(t, fallbackInput.PolicyIdeas)
}

func TestGenerate_RecoversPanics(t *testing.T) {
	panicky := composerFunc(func(types.Candidate, composer.Input) (string, error) {
		panic("nil map")
	})
	g := NewGenerator(Config{Primary: panicky, Fallback: panicky})

	batch, err := g.Generate(context.Background(), threeCandidates(), Options{})
	require.NoError(t, err)

	for _, r := range batch.Results {
		assert.Equal(t, OutcomeFailed, r.Outcome)
		var panicErr *PanicError
		assert.True(t, errors.As(r.Err, &panicErr))
	}
}

func TestGenerate_Defaults(t *testing.T) {
	var got composer.Input
	g := NewGenerator(Config{Primary: composerFunc(func(_ types.Candidate, in composer.Input) (string, error) {
		got = in
		return "ok", nil
	})})

	_, err := g.Generate(context.Background(), threeCandidates()[:1], Options{})
	require.NoError(t, err)

	assert.Equal(t, types.ToneFormal, got.Tone)
	assert.Equal(t, types.StanceConcerned, got.Stance)
	assert.Equal(t, GenericConcern, got.Concern)
}

func TestGenerate_InvalidOptions(t *testing.T) {
	g := NewGenerator(Config{Primary: echoComposer("primary")})
	opts := Options{LetterRequest: types.LetterRequest{Tone: "sarcastic"}}

	_, err := g.Generate(context.Background(), threeCandidates(), opts)
	var optsErr *OptionsError
	require.True(t, errors.As(err, &optsErr))

	assert.Empty(t, g.GenerateLetters(context.Background(), threeCandidates(), opts))
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, NewGenerator(Config{}).GenerateLetters(ctx, threeCandidates(), Options{}))
}

func TestGenerate_InsightsComputedOnceAndShared(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	g := NewGenerator(Config{Primary: composerFunc(func(c types.Candidate, in composer.Input) (string, error) {
		mu.Lock()
		seen[in.Insights] = true
		mu.Unlock()
		return c.ID, nil
	})})

	_, err := g.Generate(context.Background(), threeCandidates(), Options{LetterRequest: types.LetterRequest{
		Concern:         "rising rents",
		UploadedContent: "Median rents rose 12% in Sydney last year.",
	}})
	require.NoError(t, err)

	require.Len(t, seen, 1)
	for insight := range seen {
		assert.True(t, strings.HasPrefix(insight, "Here are some relevant facts about this issue: "), insight)
	}
}

func TestGenerate_AuditIsNotAwaited(t *testing.T) {
	release := make(chan struct{})
	var entry AuditEntry
	var calls atomic.Int32
	sink := AuditFunc(func(_ context.Context, e AuditEntry) error {
		calls.Add(1)
		entry = e
		<-release
		return errors.New("sink down")
	})
	g := NewGenerator(Config{Primary: echoComposer("primary"), Audit: sink})

	done := make(chan map[string]string, 1)
	go func() {
		done <- g.GenerateLetters(context.Background(), threeCandidates(), Options{
			LetterRequest: types.LetterRequest{Concern: "housing", Tone: types.ToneDirect},
		})
	}()

	select {
	case letters := <-done:
		assert.Len(t, letters, 3)
	case <-time.After(5 * time.Second):
		t.Fatal("generation blocked on the audit sink")
	}

	close(release)
	g.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, types.ChamberHouse, entry.Chamber)
	assert.Equal(t, "Wentworth", entry.Electorate)
	assert.Equal(t, 3, entry.CandidateCount)
	assert.Equal(t, "housing", entry.Concern)
	assert.Equal(t, types.ToneDirect, entry.Tone)
	assert.Equal(t, types.StanceConcerned, entry.Stance)
}

func TestGenerate_AuditPanicIsSwallowed(t *testing.T) {
	g := NewGenerator(Config{
		Primary: echoComposer("primary"),
		Audit: AuditFunc(func(context.Context, AuditEntry) error {
			panic("driver bug")
		}),
	})

	letters := g.GenerateLetters(context.Background(), threeCandidates(), Options{})
	g.Wait()

	assert.Len(t, letters, 3)
}

func TestGenerate_ParallelMatchesSequential(t *testing.T) {
	now := func() time.Time { return time.Date(2025, time.May, 3, 0, 0, 0, 0, time.UTC) }
	newGen := func(workers int) *Generator {
		stats := statistics.NewProvider(firstSource{})
		return NewGenerator(Config{
			Primary:  composer.New(stats, now),
			Fallback: composer.NewLegacy(stats, now),
			Workers:  workers,
		})
	}
	candidates := append(threeCandidates(),
		types.Candidate{ID: "senate-1", Name: "Ann Lee", Chamber: types.ChamberSenate, State: "Victoria", Role: types.RoleSenator},
		types.Candidate{ID: "senate-2", Name: "Bo Chan", Chamber: types.ChamberSenate, State: "Victoria"},
	)
	opts := Options{LetterRequest: types.LetterRequest{Concern: "climate and healthcare", Tone: types.ToneHopeful}}

	sequential := newGen(1).GenerateLetters(context.Background(), candidates, opts)
	parallel := newGen(8).GenerateLetters(context.Background(), candidates, opts)

	assert.Equal(t, sequential, parallel)
}

func TestGenerate_EndToEndMalformedCandidate(t *testing.T) {
	candidates := threeCandidates()
	candidates[1].Chamber = ""

	batch, err := NewGenerator(Config{}).Generate(context.Background(), candidates, Options{
		LetterRequest: types.LetterRequest{Concern: "I'm frustrated about rising rents and homelessness", Tone: types.ToneDirect},
	})
	require.NoError(t, err)

	letters := batch.Letters()
	require.Len(t, letters, 3)
	assert.Contains(t, letters["house-2"], "As a representative for Wentworth")
	assert.Contains(t, letters["house-1"], "Dear Hon. Jane Doe,")
	assert.NotContains(t, letters["house-1"], "rising rents and homelessness")
	assert.Equal(t, 3, batch.Count(OutcomeComposed))
}

func TestGenerate_EmptyTones(t *testing.T) {
	// tones without bespoke wording in older releases now compose normally
	for _, tone := range []types.Tone{types.ToneEmpathetic, types.ToneOptimistic} {
		batch, err := NewGenerator(Config{}).Generate(context.Background(), threeCandidates()[:1], Options{
			LetterRequest: types.LetterRequest{Concern: "health", Tone: tone},
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeComposed, batch.Results[0].Outcome, tone)
	}
}

func TestRegenerate(t *testing.T) {
	g := NewGenerator(Config{Primary: echoComposer("primary")})

	result, err := g.Regenerate(context.Background(), threeCandidates()[2], Options{})
	require.NoError(t, err)

	assert.Equal(t, "house-3", result.CandidateID)
	assert.Equal(t, "primary:house-3", result.Letter)
}

func TestResolveConcern(t *testing.T) {
	assert.Equal(t, "housing", ResolveConcern("housing", "climate"))
	assert.Equal(t, "climate", ResolveConcern("your previous concern", "climate"))
	assert.Equal(t, "climate", ResolveConcern("  ", "climate"))
	assert.Equal(t, GenericConcern, ResolveConcern("your previous concern", ""))
	assert.Equal(t, "climate", ResolveConcern(" your previous concern ", "climate"))
	// the sentinel is matched exactly
	assert.Equal(t, "Your Previous Concern", ResolveConcern("Your Previous Concern", "climate"))
	assert.Equal(t, GenericConcern, ResolveConcern("", "your previous concern"))
}

func TestBatch_NilSafe(t *testing.T) {
	var b *Batch

	assert.Empty(t, b.Letters())
	assert.Empty(t, b.Outcomes())
	assert.Equal(t, 0, b.Count(OutcomeFailed))
}
