// Package insights pulls short, relevant facts out of an uploaded document.
package insights

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// MaxDocumentChars bounds how much of a document is scanned.
	MaxDocumentChars = 10000
	// maxCandidates caps the combined pool of matched facts before filtering.
	maxCandidates = 20
	// maxFacts caps the facts kept after relevance filtering.
	maxFacts = 5
	// minKeywordLen is the length a concern token must exceed to count as a keyword.
	minKeywordLen = 3
	// factsPrefix introduces the synthesised insight sentence.
	factsPrefix = "Here are some relevant facts about this issue: "
)

var (
	// percentages, $ amounts in millions/billions, comma-grouped numbers
	statPattern = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s?%|\$\s?\d+(?:\.\d+)?\s?(?:million|billion|m|bn)\b|\d{1,3}(?:,\d{3})+`)
	// double- or single-quoted substrings
	quotePattern = regexp.MustCompile(`"([^"\n]{3,300})"|'([^'\n]{3,300})'`)
	// sentences containing at least one digit; a period inside a decimal does not end the sentence
	numericSentencePattern = regexp.MustCompile(`(?:[^.!?\n]|\.\d)*\d(?:[^.!?\n]|\.\d)*[.!?]?`)
)

// Extract returns a sentence listing up to five facts from document that
// mention a keyword from concern, followed by a blank line. It returns "" when
// the document is blank, nothing relevant is found, or matching fails.
func Extract(document, concern string) (insight string) {
	if strings.TrimSpace(document) == "" {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			insight = ""
		}
	}()

	facts := RelevantFacts(document, concern)
	if len(facts) == 0 {
		return ""
	}
	return factsPrefix + strings.Join(facts, "; ") + ".\n\n"
}

// RelevantFacts returns the filtered facts that Extract would join.
func RelevantFacts(document, concern string) []string {
	if strings.TrimSpace(document) == "" {
		return nil
	}

	keywords := Keywords(concern)
	if len(keywords) == 0 {
		return nil
	}

	candidates := candidateFacts(Truncate(document, MaxDocumentChars))

	var relevant []string
	for _, fact := range candidates {
		lower := strings.ToLower(fact)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				relevant = append(relevant, fact)
				break
			}
		}
		if len(relevant) == maxFacts {
			break
		}
	}
	return relevant
}

// candidateFacts collects stats, then quotes, then numeric sentences, capped
// at maxCandidates.
func candidateFacts(doc string) []string {
	var pool []string
	add := func(s string) bool {
		s = cleanFact(s)
		if s != "" {
			pool = append(pool, s)
		}
		return len(pool) < maxCandidates
	}

	for _, m := range statPattern.FindAllString(doc, -1) {
		if !add(m) {
			return pool
		}
	}
	for _, m := range quotePattern.FindAllStringSubmatch(doc, -1) {
		quoted := m[1]
		if quoted == "" {
			quoted = m[2]
		}
		if !add(quoted) {
			return pool
		}
	}
	for _, m := range numericSentencePattern.FindAllString(doc, -1) {
		if !add(m) {
			return pool
		}
	}
	return pool
}

// Keywords returns the lowercase concern tokens longer than three characters.
func Keywords(concern string) []string {
	var keywords []string
	seen := make(map[string]bool)
	for _, raw := range strings.Fields(strings.ToLower(concern)) {
		token := strings.TrimFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len([]rune(token)) <= minKeywordLen || seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
	}
	return keywords
}

// Truncate returns at most limit characters of s.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

func cleanFact(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, ".!?;, ")
}
