package topics

import (
	"regexp"
	"strings"
	"unicode"
)

// genericPhrase is used when the concern is blank or yields no usable words.
const genericPhrase = "the issues that matter most to our community"

// maxGenericWords caps how many words of the concern feed the derived phrase.
const maxGenericWords = 3

type paraphraseDomain struct {
	name    string
	trigger *regexp.Regexp
	phrase  string
}

// paraphraseDomains is checked in order; the first trigger that matches wins.
// This is deliberately separate from the classifier taxonomy.
var paraphraseDomains = []paraphraseDomain{
	{
		name:    "climate",
		trigger: regexp.MustCompile(`(?i)\b(climate|environment|emission|carbon|renewable|fossil|pollution|global warming)`),
		phrase:  "the urgent need for meaningful climate action and environmental protection",
	},
	{
		name:    "health",
		trigger: regexp.MustCompile(`(?i)\b(health|medical|medicare|hospital|doctor|nurs|patient)`),
		phrase:  "the need for accessible and properly funded healthcare for every Australian",
	},
	{
		name:    "education",
		trigger: regexp.MustCompile(`(?i)\b(education|school|universit|teacher|student|tafe)`),
		phrase:  "the importance of fair and well-resourced education at every stage of life",
	},
	{
		name:    "indigenous",
		trigger: regexp.MustCompile(`(?i)\b(indigenous|aboriginal|first nations|torres strait)`),
		phrase:  "justice, recognition and self-determination for Aboriginal and Torres Strait Islander peoples",
	},
	{
		name:    "gender",
		trigger: regexp.MustCompile(`(?i)\b(gender|women|woman|equal pay|domestic violence|family violence)`),
		phrase:  "the need for genuine gender equality and the safety of women in our community",
	},
	{
		name:    "housing",
		trigger: regexp.MustCompile(`(?i)\b(housing|rent|homeless|mortgage|afford|tenan)`),
		phrase:  "the worsening housing affordability crisis and the need for secure, affordable homes",
	},
	{
		name:    "economy",
		trigger: regexp.MustCompile(`(?i)\b(economy|economic|cost of living|inflation|wage|jobs?\b|employment|tax)`),
		phrase:  "the rising cost of living and the economic pressure facing ordinary households",
	},
}

// Paraphrase returns a formal description of the concern. The user's text is
// never returned verbatim; at most a few of its longer words are quoted into
// a generic template.
func Paraphrase(concern string) string {
	if strings.TrimSpace(concern) == "" {
		return genericPhrase
	}

	for _, d := range paraphraseDomains {
		if d.trigger.MatchString(concern) {
			return d.phrase
		}
	}

	words := significantWords(concern, maxGenericWords)
	if len(words) == 0 {
		return genericPhrase
	}
	return "the issues of " + joinWords(words) + " that affect our community"
}

// ParaphraseDomain reports which paraphrase domain matched, or "" for none.
func ParaphraseDomain(concern string) string {
	for _, d := range paraphraseDomains {
		if d.trigger.MatchString(concern) {
			return d.name
		}
	}
	return ""
}

// significantWords returns up to limit lowercase words longer than four letters.
func significantWords(text string, limit int) []string {
	var words []string
	for _, raw := range strings.Fields(text) {
		word := strings.ToLower(strings.TrimFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if len([]rune(word)) <= 4 {
			continue
		}
		words = append(words, word)
		if len(words) == limit {
			break
		}
	}
	return words
}

func joinWords(words []string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	default:
		return strings.Join(words[:len(words)-1], ", ") + " and " + words[len(words)-1]
	}
}
