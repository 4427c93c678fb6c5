package letters

import "github.com/jonathan/speak-out/internal/types"

// Outcome is the terminal state of one candidate's letter.
type Outcome string

// Outcome values
const (
	// OutcomeComposed means the primary composer produced the letter.
	OutcomeComposed Outcome = "composed"
	// OutcomeComposedViaFallback means the primary composer failed and the
	// legacy composer produced the letter.
	OutcomeComposedViaFallback Outcome = "composed_via_fallback"
	// OutcomeFailed means both composers failed and Letter holds a placeholder.
	OutcomeFailed Outcome = "failed"
)

// Result is the letter generated for one candidate.
type Result struct {
	CandidateID string  `json:"candidate_id"`
	Letter      string  `json:"letter"`
	Outcome     Outcome `json:"outcome"`
	// Err is the last composer error, if any.
	Err error `json:"-"`
}

// Batch is the output of one generation call, in candidate order.
type Batch struct {
	ID      string   `json:"id"`
	Results []Result `json:"results"`
}

// Letters returns the candidate id to letter mapping.
func (b *Batch) Letters() map[string]string {
	out := make(map[string]string)
	if b == nil {
		return out
	}
	for _, r := range b.Results {
		out[r.CandidateID] = r.Letter
	}
	return out
}

// Outcomes returns the candidate id to outcome mapping.
func (b *Batch) Outcomes() map[string]Outcome {
	out := make(map[string]Outcome)
	if b == nil {
		return out
	}
	for _, r := range b.Results {
		out[r.CandidateID] = r.Outcome
	}
	return out
}

// Count returns how many results ended in outcome.
func (b *Batch) Count(outcome Outcome) int {
	if b == nil {
		return 0
	}
	n := 0
	for _, r := range b.Results {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}

// Placeholder is the letter text used when no composer succeeds.
func Placeholder(c types.Candidate) string {
	return "Error generating letter for " + c.DisplayName() + ". Please try again."
}
