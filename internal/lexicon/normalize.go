// Package lexicon rewrites American spellings to their Australian equivalents.
package lexicon

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pair is a single whole-word spelling substitution.
type Pair struct {
	From string
	To   string
}

// australianSpellings is applied in order. No target may itself be a source,
// otherwise normalisation would stop being idempotent.
var australianSpellings = []Pair{
	{"color", "colour"},
	{"colors", "colours"},
	{"favor", "favour"},
	{"favorable", "favourable"},
	{"favorite", "favourite"},
	{"honor", "honour"},
	{"behavior", "behaviour"},
	{"behaviors", "behaviours"},
	{"neighbor", "neighbour"},
	{"neighbors", "neighbours"},
	{"neighborhood", "neighbourhood"},
	{"neighborhoods", "neighbourhoods"},
	{"center", "centre"},
	{"centers", "centres"},
	{"theater", "theatre"},
	{"organization", "organisation"},
	{"organizations", "organisations"},
	{"organize", "organise"},
	{"organized", "organised"},
	{"organizing", "organising"},
	{"recognize", "recognise"},
	{"recognized", "recognised"},
	{"realize", "realise"},
	{"realized", "realised"},
	{"prioritize", "prioritise"},
	{"prioritized", "prioritised"},
	{"criticize", "criticise"},
	{"emphasize", "emphasise"},
	{"utilize", "utilise"},
	{"mobilize", "mobilise"},
	{"analyze", "analyse"},
	{"apologize", "apologise"},
	{"defense", "defence"},
	{"offense", "offence"},
	{"labor", "labour"},
}

// laborPartyPattern matches "labor", optionally followed by "party". The party
// name is a proper noun and keeps its American spelling.
var laborPartyPattern = regexp.MustCompile(`(?i)\blabor\b(\s+party\b)?`)

type rule struct {
	pattern *regexp.Regexp
	to      string
}

// Normalizer applies an ordered list of whole-word, case-insensitive substitutions.
type Normalizer struct {
	rules []rule
	labor string
}

// New builds a Normalizer from pairs. A pair whose source is "labor" is handled
// specially so that "Labor Party" is never rewritten.
func New(pairs []Pair) *Normalizer {
	n := &Normalizer{}
	for _, p := range pairs {
		from := strings.ToLower(strings.TrimSpace(p.From))
		if from == "" || strings.EqualFold(from, p.To) {
			continue
		}
		if from == "labor" {
			n.labor = p.To
			continue
		}
		n.rules = append(n.rules, rule{
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(from) + `\b`),
			to:      p.To,
		})
	}
	return n
}

// Normalize rewrites every listed spelling in text, preserving the case shape
// of each matched word.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = laborPartyPattern.ReplaceAllStringFunc(text, func(match string) string {
		if len(match) > len("labor") {
			return "Labor Party"
		}
		if n.labor == "" {
			return match
		}
		return matchCase(match, n.labor)
	})

	for _, r := range n.rules {
		to := r.to
		text = r.pattern.ReplaceAllStringFunc(text, func(match string) string {
			return matchCase(match, to)
		})
	}

	return text
}

var defaultNormalizer = New(australianSpellings)

// Normalize rewrites American spellings in text to Australian spellings.
func Normalize(text string) string {
	return defaultNormalizer.Normalize(text)
}

// matchCase shapes replacement like original: all caps, title case, or lower.
func matchCase(original, replacement string) string {
	if original == strings.ToUpper(original) && original != strings.ToLower(original) {
		return strings.ToUpper(replacement)
	}
	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(replacement)
		return string(unicode.ToUpper(r)) + replacement[size:]
	}
	return strings.ToLower(replacement)
}
