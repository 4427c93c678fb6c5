// Package composer assembles advocacy letters from a candidate record and the
// user's request.
package composer

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/speak-out/internal/lexicon"
	"github.com/jonathan/speak-out/internal/quality"
	"github.com/jonathan/speak-out/internal/statistics"
	"github.com/jonathan/speak-out/internal/topics"
	"github.com/jonathan/speak-out/internal/types"
)

// Input is everything a letter needs besides the candidate. Concern is the
// user's free text; it feeds classification only and is never quoted in the
// body. Insights is the pre-computed document insight sentence, possibly "".
type Input struct {
	Concern            string
	Insights           string
	Stance             types.Stance
	Tone               types.Tone
	PersonalExperience string
	PolicyIdeas        string
	Sender             *types.SenderDetails
}

// Composer builds the full letter, including the stance paragraph and the
// optional personal experience and policy idea sentences.
type Composer struct {
	stats *statistics.Provider
	now   func() time.Time
}

// New creates a Composer. A nil stats uses a provider backed by the shared
// random generator; a nil now uses time.Now.
func New(stats *statistics.Provider, now func() time.Time) *Composer {
	if stats == nil {
		stats = statistics.NewProvider(nil)
	}
	if now == nil {
		now = time.Now
	}
	return &Composer{stats: stats, now: now}
}

// Compose writes one letter for candidate.
func (c *Composer) Compose(candidate types.Candidate, in Input) (string, error) {
	tmpl, ok := toneTemplates[in.Tone]
	if !ok {
		return "", &UnsupportedToneError{Tone: in.Tone}
	}

	var extras []string
	if s := stanceSentences[in.Stance]; s != "" {
		extras = append(extras, s)
	}
	if strings.TrimSpace(in.PersonalExperience) != "" {
		extras = append(extras, personalExperienceSentence)
	}
	if strings.TrimSpace(in.PolicyIdeas) != "" {
		extras = append(extras, policyIdeasSentence)
	}

	return assemble(candidate, in, tmpl, extras, c.stats, c.now())
}

// Legacy is the reduced composer used when Composer fails. It ignores stance,
// personal experience and policy ideas, and falls back to the formal templates
// for any tone it does not know.
type Legacy struct {
	stats *statistics.Provider
	now   func() time.Time
}

// NewLegacy creates a Legacy composer with the same defaults as New.
func NewLegacy(stats *statistics.Provider, now func() time.Time) *Legacy {
	if stats == nil {
		stats = statistics.NewProvider(nil)
	}
	if now == nil {
		now = time.Now
	}
	return &Legacy{stats: stats, now: now}
}

// Compose writes one letter for candidate using only the core template.
func (l *Legacy) Compose(candidate types.Candidate, in Input) (string, error) {
	tmpl, ok := toneTemplates[in.Tone]
	if !ok {
		tmpl = toneTemplates[types.ToneFormal]
	}
	return assemble(candidate, in, tmpl, nil, l.stats, l.now())
}

// assemble lays out the letter and runs the quality pass over it.
func assemble(candidate types.Candidate, in Input, tmpl toneTemplate, extras []string, stats *statistics.Provider, now time.Time) (string, error) {
	if strings.TrimSpace(candidate.Name) == "" {
		return "", &ValidationError{Field: "name", Message: fmt.Sprintf("candidate %q has no name", candidate.ID)}
	}

	concern := lexicon.Normalize(in.Concern)

	opening := fmt.Sprintf(tmpl.opening, topics.Paraphrase(concern))
	if len(extras) > 0 {
		opening += " " + strings.Join(extras, " ")
	}

	body := []string{
		stats.Pick(concern),
		topics.ContextFor(concern),
		roleSentence(candidate),
	}
	if insight := strings.TrimSpace(in.Insights); insight != "" {
		body = append(body, insight)
	}

	senderName := orDefault(in.Sender.FullName(), senderNamePlaceholder)
	var senderEmail, senderPhone string
	if in.Sender != nil {
		senderEmail, senderPhone = in.Sender.Email, in.Sender.Phone
	}

	recipient := []string{Addressee(candidate)}
	if candidate.Email != "" {
		recipient = append(recipient, candidate.Email)
	}

	var sb strings.Builder
	sb.WriteString(senderName + "\n")
	sb.WriteString(orDefault(senderEmail, senderEmailPlaceholder) + "\n")
	sb.WriteString(orDefault(senderPhone, senderPhonePlaceholder) + "\n\n")
	sb.WriteString(now.Format(dateLayout) + "\n\n")
	sb.WriteString(strings.Join(recipient, "\n") + "\n\n")
	sb.WriteString("Dear " + Addressee(candidate) + ",\n\n")
	sb.WriteString(topics.Subject(concern) + "\n\n")
	sb.WriteString(opening + "\n\n")
	sb.WriteString(strings.Join(body, "\n\n") + "\n\n")
	sb.WriteString(tmpl.closing + "\n\n")
	sb.WriteString(signOff + "\n\n")
	sb.WriteString(senderName)

	return quality.Clean(sb.String()), nil
}
