// Package statistics supplies supporting facts for advocacy letters.
package statistics

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// GenericFallback is returned when no topic keyword is present.
const GenericFallback = "Issues like this affect thousands of Australians every day, and community voices " +
	"play a vital role in shaping better policy outcomes."

// RandSource picks an index in [0, n).
type RandSource interface {
	IntN(n int) int
}

type pool struct {
	keyword string
	facts   []string
}

// pools are checked in order against the lowercase concern as plain substrings.
var pools = []pool{
	{
		keyword: "violence",
		facts: []string{
			"On average, one woman a week is killed by a current or former partner in Australia.",
			"One in four Australian women has experienced violence from an intimate partner since the age of 15.",
			"Family and domestic violence is a leading cause of homelessness for women and children in Australia.",
		},
	},
	{
		keyword: "climate",
		facts: []string{
			"Australia has warmed by around 1.5 degrees Celsius since national records began in 1910.",
			"The 2019-20 Black Summer bushfires burned more than 24 million hectares across the country.",
			"The Great Barrier Reef has experienced several mass bleaching events since 2016.",
			"Renewable sources now supply more than a third of electricity in the National Electricity Market.",
		},
	},
	{
		keyword: "healthcare",
		facts: []string{
			"Around one in three Australians report delaying or avoiding care because of cost.",
			"Bulk billing rates for GP visits have fallen sharply in many regions over recent years.",
			"Emergency department waiting times in public hospitals remain above national targets in most states.",
		},
	},
	{
		keyword: "housing",
		facts: []string{
			"More than 122,000 Australians were experiencing homelessness on census night in 2021.",
			"Rental vacancy rates in many capital cities have fallen below 1 per cent.",
			"The average home now costs more than eight times the average annual household income.",
			"Over a million low-income households are in housing stress across Australia.",
		},
	},
	{
		keyword: "education",
		facts: []string{
			"Most public schools in Australia are funded below the agreed Schooling Resource Standard.",
			"Total outstanding student debt in Australia exceeds $70 billion.",
			"Teacher shortages are affecting schools in every state and territory.",
		},
	},
}

// Provider picks statistics using its random source.
type Provider struct {
	mu  sync.Mutex
	rng RandSource
}

// NewProvider returns a Provider that draws from rng. A nil rng uses the
// runtime's shared generator.
func NewProvider(rng RandSource) *Provider {
	return &Provider{rng: rng}
}

// Pick returns a statistic for the first topic keyword found in concern, or
// GenericFallback. Repeated calls with the same concern may return different
// statistics.
func (p *Provider) Pick(concern string) string {
	lower := strings.ToLower(concern)
	for _, pl := range pools {
		if strings.Contains(lower, pl.keyword) {
			return pl.facts[p.intN(len(pl.facts))]
		}
	}
	return GenericFallback
}

// Pool returns a copy of the facts for keyword, or nil.
func Pool(keyword string) []string {
	for _, pl := range pools {
		if pl.keyword == keyword {
			out := make([]string, len(pl.facts))
			copy(out, pl.facts)
			return out
		}
	}
	return nil
}

func (p *Provider) intN(n int) int {
	if p == nil || p.rng == nil {
		return rand.IntN(n)
	}
	// injected sources such as *rand.Rand are not safe for concurrent use
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}
