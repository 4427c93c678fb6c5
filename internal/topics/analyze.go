package topics

import "github.com/jonathan/speak-out/internal/lexicon"

// Analysis summarises how a concern is interpreted by the letter pipeline.
type Analysis struct {
	Concern    string  `json:"concern"`
	Normalized string  `json:"normalized"`
	Topic      Topic   `json:"topic"`
	Scores     []Score `json:"scores"`
	Domain     string  `json:"paraphrase_domain,omitempty"`
	Paraphrase string  `json:"paraphrase"`
	Subject    string  `json:"subject"`
	Context    string  `json:"context"`
}

// Analyze normalises the concern spelling and runs every classifier on it.
func Analyze(concern string) Analysis {
	normalized := lexicon.Normalize(concern)
	topic := Classify(normalized)
	return Analysis{
		Concern:    concern,
		Normalized: normalized,
		Topic:      topic,
		Scores:     Scores(normalized),
		Domain:     ParaphraseDomain(normalized),
		Paraphrase: Paraphrase(normalized),
		Subject:    Subject(normalized),
		Context:    Context(topic),
	}
}
