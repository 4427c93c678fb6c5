package topics

import "strings"

// Score is the number of keyword hits for one topic.
type Score struct {
	Topic Topic `json:"topic"`
	Hits  int   `json:"hits"`
}

// Scores counts keyword hits for every non-default topic, in declaration order.
func Scores(text string) []Score {
	lower := strings.ToLower(text)
	scores := make([]Score, 0, len(taxonomy))
	for _, entry := range taxonomy {
		if entry.Topic == TopicDefault {
			continue
		}
		hits := 0
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		scores = append(scores, Score{Topic: entry.Topic, Hits: hits})
	}
	return scores
}

// Classify returns the topic with the most keyword hits. Ties go to the topic
// declared first; zero hits everywhere yields TopicDefault.
func Classify(text string) Topic {
	best := TopicDefault
	bestHits := 0
	for _, s := range Scores(text) {
		// strict comparison keeps the earliest topic on ties
		if s.Hits > bestHits {
			best = s.Topic
			bestHits = s.Hits
		}
	}
	return best
}

// Context returns the context paragraph for topic, or the default paragraph
// for unknown topics.
func Context(topic Topic) string {
	if entry, ok := lookup(topic); ok {
		return entry.Context
	}
	entry, _ := lookup(TopicDefault)
	return entry.Context
}

// ContextFor classifies text and returns the matching context paragraph.
func ContextFor(text string) string {
	return Context(Classify(text))
}
