package quality

import (
	"regexp"
	"strings"
)

var salutationPattern = regexp.MustCompile(`(?m)^Dear [^\n]+,`)

// Report summarises the structural checks run over a finished letter.
type Report struct {
	HasSalutation      bool     `json:"has_salutation"`
	HasSignOff         bool     `json:"has_sign_off"`
	DuplicateSentences int      `json:"duplicate_sentences"`
	WordyPhrases       []string `json:"wordy_phrases,omitempty"`
	EchoedPhrases      []string `json:"echoed_phrases,omitempty"`
}

// Inspect checks a letter without modifying it. concern is the user's original
// text; any run of echoWords or more consecutive concern words found verbatim
// in the letter is reported.
func Inspect(letter, concern string, echoWords int) Report {
	report := Report{
		HasSalutation: salutationPattern.MatchString(letter),
		HasSignOff:    hasSignOff(letter),
	}

	seen := make(map[string]bool)
	for _, s := range SplitSentences(letter) {
		if seen[s] {
			report.DuplicateSentences++
		}
		seen[s] = true
	}

	report.WordyPhrases = findWordyPhrases(letter)
	report.EchoedPhrases = EchoedPhrases(letter, concern, echoWords)
	return report
}

// Clean reports whether nothing needs attention.
func (r Report) Clean() bool {
	return r.HasSalutation && r.HasSignOff && r.DuplicateSentences == 0 &&
		len(r.WordyPhrases) == 0 && len(r.EchoedPhrases) == 0
}

func hasSignOff(letter string) bool {
	for _, kw := range []string{"Yours sincerely,", "Kind regards,", "Sincerely,", "Regards,", "Thank you,"} {
		if strings.Contains(letter, kw) {
			return true
		}
	}
	return false
}

// findWordyPhrases returns each wordy phrase present, once, in table order.
func findWordyPhrases(text string) []string {
	var found []string
	for i, re := range wordyPatterns {
		if re.MatchString(text) {
			found = append(found, wordyPhrases[i].wordy)
		}
	}
	return found
}

// EchoedPhrases returns every window of n consecutive words from concern that
// appears verbatim (case-insensitive) in letter. It returns nil for n < 1.
func EchoedPhrases(letter, concern string, n int) []string {
	if n < 1 {
		return nil
	}
	words := strings.Fields(concern)
	if len(words) < n {
		return nil
	}

	lowerLetter := strings.ToLower(strings.Join(strings.Fields(letter), " "))
	var echoed []string
	seen := make(map[string]bool)
	for i := 0; i+n <= len(words); i++ {
		window := strings.ToLower(strings.Join(words[i:i+n], " "))
		if seen[window] {
			continue
		}
		seen[window] = true
		if strings.Contains(lowerLetter, window) {
			echoed = append(echoed, window)
		}
	}
	return echoed
}
