package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/speak-out/internal/ingestion"
	"github.com/jonathan/speak-out/internal/letters"
	"github.com/jonathan/speak-out/internal/quality"
	"github.com/jonathan/speak-out/internal/topics"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	a := topics.Analyze("climate change and bushfire recovery")
	p.PrintAnalysis(&a)
	output := buf.String()

	assert.Contains(t, output, "CONCERN ANALYSIS")
	assert.Contains(t, output, "climate")
	assert.Contains(t, output, "Keyword hits:")
	assert.Contains(t, output, "Re: ")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(nil)
	assert.Empty(t, buf.String())
}

func TestPrintDocument(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	meta := ingestion.NewMetadata("<p>x</p>", "x", ingestion.SourceHTML, true)
	p.PrintDocument(meta, "")
	output := buf.String()

	assert.Contains(t, output, "UPLOADED DOCUMENT")
	assert.Contains(t, output, "html")
	assert.Contains(t, output, "Truncated")
	assert.Contains(t, output, "No relevant facts found.")
}

func TestPrintBatch(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	batch := &letters.Batch{
		ID: "b1",
		Results: []letters.Result{
			{CandidateID: "c1", Letter: "Dear Alex Smith,\n\nA letter.", Outcome: letters.OutcomeComposed},
			{CandidateID: "c2", Letter: "Error generating letter for c2. Please try again.", Outcome: letters.OutcomeFailed, Err: errors.New("no name")},
		},
	}
	p.PrintBatch(batch, map[string]string{"c1": "Alex Smith"})
	output := buf.String()

	assert.Contains(t, output, "Alex Smith")
	assert.Contains(t, output, "c2 [failed]")
	assert.Contains(t, output, "Composed:  1")
	assert.Contains(t, output, "Failed:    1")
	assert.Contains(t, output, "c2: no name")
}

func TestPrintQuality(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQuality("c1", quality.Report{HasSalutation: true, HasSignOff: true})
	assert.Contains(t, buf.String(), "no issues found")

	buf.Reset()
	p.PrintQuality("c2", quality.Report{HasSalutation: true, DuplicateSentences: 2})
	assert.Contains(t, buf.String(), "missing sign-off")
	assert.Contains(t, buf.String(), "2 duplicate sentences")
}

func TestPrintBox_WrapsLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("housing ", 30))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"short"}, wrap("short", 10))
	assert.Equal(t, []string{"one two", "three"}, wrap("one two three", 8))
	assert.Equal(t, []string{"abcde", "fgh"}, wrap("abcdefgh", 5))
}
