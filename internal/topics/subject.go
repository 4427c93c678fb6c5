package topics

import "strings"

// subjectPrefix starts every generated subject line.
const subjectPrefix = "Re: "

// fallbackSubjectPrefix introduces a subject built from the concern itself.
const fallbackSubjectPrefix = "Re: Policy Position on "

// fallbackSubjectWords is how many tokens of the concern the fallback keeps.
const fallbackSubjectWords = 5

type subjectTitle struct {
	keyword string
	title   string
}

// subjectTitles is checked in order; first keyword found wins.
var subjectTitles = []subjectTitle{
	{"climate", "Climate Action and Environmental Protection"},
	{"healthcare", "Healthcare Reform and Medicare Funding Priorities"},
	{"education", "Education Funding and Access"},
	{"housing", "Housing Affordability and Homelessness"},
	{"immigration", "Immigration and Multicultural Policy"},
	{"economy", "Cost of Living and Economic Policy"},
	{"gender", "Gender Equality and Women's Safety"},
	{"violence", "Preventing Family and Domestic Violence"},
	{"indigenous", "First Nations Justice and Recognition"},
	{"disability", "Disability Support and the NDIS"},
	{"welfare", "Welfare and Income Support"},
	{"transport", "Public Transport and Infrastructure"},
	{"energy", "Energy Prices and the Transition to Renewables"},
	{"mental", "Mental Health Services and Support"},
	{"agriculture", "Agriculture and Regional Communities"},
	{"water", "Water Security and River Health"},
}

// Subject derives a letter subject line from the concern.
func Subject(concern string) string {
	lower := strings.ToLower(concern)
	for _, s := range subjectTitles {
		if strings.Contains(lower, s.keyword) {
			return subjectPrefix + s.title
		}
	}

	tokens := spaceTokens(concern)
	if len(tokens) >= fallbackSubjectWords {
		return fallbackSubjectPrefix + strings.Join(tokens[:fallbackSubjectWords], " ")
	}
	return fallbackSubjectPrefix + concern
}

// spaceTokens splits on single spaces and drops the empty tokens left by runs
// of spaces. Tabs and newlines stay inside their token.
func spaceTokens(s string) []string {
	parts := strings.Split(s, " ")
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
