// Package quality tidies composed letters: sign-off spacing, repeated words,
// wordy phrasing, spelling and duplicated sentences.
package quality

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/speak-out/internal/lexicon"
)

// signOffPattern matches a sign-off keyword followed on a later line by a
// capitalised name or a bracketed placeholder.
var signOffPattern = regexp.MustCompile(`\s*\b(Yours sincerely|Kind regards|Sincerely|Regards|Thank you)[ \t]*,?[ \t]*\n\s*([A-Z\[][^\n]*)`)

// repeatedWordPatterns collapse runs of near-synonyms to the first word.
// Runs may span line breaks, so unrelated sentences can occasionally merge.
var repeatedWordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:issue|matter|concern)s?(?:\s+(?:issue|matter|concern)s?)+\b`),
	regexp.MustCompile(`(?i)\b(?:important|significant|critical)(?:\s+(?:important|significant|critical))+\b`),
}

type phrase struct {
	wordy   string
	concise string
}

// wordyPhrases are replaced case-insensitively in order.
var wordyPhrases = []phrase{
	{"in order to", "to"},
	{"at this point in time", "now"},
	{"at the present time", "now"},
	{"due to the fact that", "because"},
	{"in spite of the fact that", "although"},
	{"in the event that", "if"},
	{"with regard to", "regarding"},
	{"with respect to", "regarding"},
	{"a large number of", "many"},
	{"in the near future", "soon"},
	{"for the purpose of", "for"},
	{"has the ability to", "can"},
	{"take into consideration", "consider"},
}

var wordyPatterns = compileWordy(wordyPhrases)

// spelling is the subset of the lexicon re-applied after composition.
var spelling = lexicon.New([]lexicon.Pair{
	{From: "organization", To: "organisation"},
	{From: "organizations", To: "organisations"},
	{From: "center", To: "centre"},
	{From: "color", To: "colour"},
	{From: "favor", To: "favour"},
	{From: "behavior", To: "behaviour"},
	{From: "recognize", To: "recognise"},
	{From: "realize", To: "realise"},
	{From: "prioritize", To: "prioritise"},
	{From: "defense", To: "defence"},
})

// sentenceBoundary is terminal punctuation followed by whitespace or the end.
var sentenceBoundary = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

// Clean runs every quality pass over text in a fixed order.
func Clean(text string) string {
	text = FixSignOff(text)
	text = CollapseRepeatedWords(text)
	text = ReplaceWordyPhrases(text)
	text = spelling.Normalize(text)
	return DedupeSentences(text)
}

// FixSignOff puts one blank line before the sign-off, a comma after it and a
// blank line before the name.
func FixSignOff(text string) string {
	return signOffPattern.ReplaceAllString(text, "\n\n${1},\n\n${2}")
}

// CollapseRepeatedWords keeps only the first word of an immediate run such as
// "issue matter" or "important critical".
func CollapseRepeatedWords(text string) string {
	for _, re := range repeatedWordPatterns {
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			return strings.Fields(match)[0]
		})
	}
	return text
}

// ReplaceWordyPhrases swaps wordy phrases for concise ones, keeping a leading
// capital.
func ReplaceWordyPhrases(text string) string {
	for i, re := range wordyPatterns {
		concise := wordyPhrases[i].concise
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			first, _ := utf8.DecodeRuneInString(match)
			if unicode.IsUpper(first) {
				r, size := utf8.DecodeRuneInString(concise)
				return string(unicode.ToUpper(r)) + concise[size:]
			}
			return concise
		})
	}
	return text
}

// DedupeSentences drops exact repeats of earlier sentences and joins the rest
// with single spaces. Whitespace between sentences, including paragraph
// breaks, does not survive.
func DedupeSentences(text string) string {
	sentences := SplitSentences(text)
	seen := make(map[string]bool, len(sentences))
	kept := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if seen[s] {
			continue
		}
		seen[s] = true
		kept = append(kept, s)
	}
	return strings.Join(kept, " ")
}

// SplitSentences splits text after runs of terminal punctuation that are
// followed by whitespace. Sentences are trimmed; empty ones are dropped and
// trailing text without punctuation is kept as the last sentence.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		end := loc[0] + len(strings.TrimRightFunc(text[loc[0]:loc[1]], unicode.IsSpace))
		if s := strings.TrimSpace(text[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if start < len(text) {
		if s := strings.TrimSpace(text[start:]); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func compileWordy(phrases []phrase) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(phrases))
	for i, p := range phrases {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p.wordy) + `\b`)
	}
	return out
}
