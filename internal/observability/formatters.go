// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/speak-out/internal/ingestion"
	"github.com/jonathan/speak-out/internal/letters"
	"github.com/jonathan/speak-out/internal/quality"
	"github.com/jonathan/speak-out/internal/topics"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Long lines are
// wrapped at word boundaries.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		for _, wrapped := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to width runes. fmt's width counts bytes for
// multi-byte text, so padding is done by hand.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(line) {
		for utf8.RuneCountInString(word) > width {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
			r := []rune(word)
			lines = append(lines, string(r[:width]))
			word = string(r[width:])
		}
		if current.Len() > 0 && utf8.RuneCountInString(current.String())+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// PrintAnalysis outputs how a concern was classified and paraphrased.
func (p *Printer) PrintAnalysis(a *topics.Analysis) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Concern:     %s\n", a.Concern))
	if a.Normalized != a.Concern {
		sb.WriteString(fmt.Sprintf("Normalised:  %s\n", a.Normalized))
	}
	sb.WriteString(fmt.Sprintf("Topic:       %s\n", a.Topic))
	if a.Domain != "" {
		sb.WriteString(fmt.Sprintf("Domain:      %s\n", a.Domain))
	}
	sb.WriteString(fmt.Sprintf("Subject:     %s\n", a.Subject))
	sb.WriteString(fmt.Sprintf("Paraphrase:  %s\n", a.Paraphrase))
	sb.WriteString("\n")

	shown := 0
	for _, s := range a.Scores {
		if s.Hits == 0 || shown == maxItemsToShow {
			continue
		}
		if shown == 0 {
			sb.WriteString("Keyword hits:\n")
		}
		sb.WriteString(fmt.Sprintf("  • %s (%d)\n", s.Topic, s.Hits))
		shown++
	}
	if shown == 0 {
		sb.WriteString("No topic keywords matched.\n")
	}
	sb.WriteString("\n")
	sb.WriteString(a.Context)

	p.printBox("CONCERN ANALYSIS", sb.String())
}

// PrintDocument outputs a summary of a prepared upload and the insight drawn
// from it.
func (p *Printer) PrintDocument(meta *ingestion.Metadata, insight string) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:     %s\n", meta.Source))
	sb.WriteString(fmt.Sprintf("Characters: %d of %d\n", meta.Chars, meta.RawChars))
	if meta.Truncated {
		sb.WriteString(fmt.Sprintf("Truncated to %d characters\n", ingestion.MaxUploadChars))
	}
	sb.WriteString("\n")
	if strings.TrimSpace(insight) == "" {
		sb.WriteString("No relevant facts found.")
	} else {
		sb.WriteString(strings.TrimSpace(insight))
	}

	p.printBox("UPLOADED DOCUMENT", sb.String())
}

// PrintBatch outputs every letter in a batch, each in its own box, followed by
// an outcome summary. names maps candidate ids to display names.
func (p *Printer) PrintBatch(batch *letters.Batch, names map[string]string) {
	if batch == nil {
		return
	}

	for _, r := range batch.Results {
		title := r.CandidateID
		if name := names[r.CandidateID]; name != "" {
			title = name
		}
		if r.Outcome != letters.OutcomeComposed {
			title = fmt.Sprintf("%s [%s]", title, r.Outcome)
		}
		p.printBox(title, r.Letter)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Batch:     %s\n", batch.ID))
	sb.WriteString(fmt.Sprintf("Composed:  %d\n", batch.Count(letters.OutcomeComposed)))
	sb.WriteString(fmt.Sprintf("Fallback:  %d\n", batch.Count(letters.OutcomeComposedViaFallback)))
	sb.WriteString(fmt.Sprintf("Failed:    %d\n", batch.Count(letters.OutcomeFailed)))

	failures := 0
	for _, r := range batch.Results {
		if r.Err == nil {
			continue
		}
		if failures == 0 {
			sb.WriteString("\nErrors:\n")
		}
		if failures == maxItemsToShow {
			sb.WriteString("  ...\n")
			break
		}
		sb.WriteString(fmt.Sprintf("  ⚠ %s: %v\n", r.CandidateID, r.Err))
		failures++
	}

	p.printBox("GENERATION SUMMARY", sb.String())
}

// PrintQuality outputs the structural checks for one letter.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintQuality(candidateID string, report quality.Report) {
	if report.Clean() {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad("✅ "+candidateID+": no issues found", boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	if !report.HasSalutation {
		sb.WriteString("⚠ missing salutation\n")
	}
	if !report.HasSignOff {
		sb.WriteString("⚠ missing sign-off\n")
	}
	if report.DuplicateSentences > 0 {
		sb.WriteString(fmt.Sprintf("⚠ %d duplicate sentences\n", report.DuplicateSentences))
	}
	for _, w := range report.WordyPhrases {
		sb.WriteString(fmt.Sprintf("⚠ wordy phrase: %q\n", w))
	}
	for _, e := range report.EchoedPhrases {
		sb.WriteString(fmt.Sprintf("⚠ echoes concern: %q\n", e))
	}

	p.printBox("QUALITY: "+candidateID, sb.String())
}
