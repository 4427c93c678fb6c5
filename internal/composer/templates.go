package composer

import "github.com/jonathan/speak-out/internal/types"

// toneTemplate holds the opening sentence (with a %s for the concern phrase)
// and the closing paragraph for one tone.
type toneTemplate struct {
	opening string
	closing string
}

var toneTemplates = map[types.Tone]toneTemplate{
	types.ToneFormal: {
		opening: "I am writing to you as a constituent to raise %s.",
		closing: "I would be grateful if you could outline your position on this matter and the steps you intend to take. " +
			"Thank you for your time and consideration.",
	},
	types.TonePassionate: {
		opening: "I am writing because I care deeply about %s, and I can no longer stay silent.",
		closing: "This cannot wait. I urge you to champion this cause and to stand up for the people you represent. " +
			"I look forward to seeing your leadership on this.",
	},
	types.ToneDirect: {
		opening: "I am writing to ask what you will do about %s.",
		closing: "I expect a clear answer. Please tell me where you stand and what you will do. " +
			"I look forward to your prompt response.",
	},
	types.ToneHopeful: {
		opening: "I am writing in the hope that you will help lead positive change on %s.",
		closing: "I am confident that, together, we can build a better future. " +
			"I hope you will take up this cause, and I look forward to hearing from you.",
	},
	// empathetic and optimistic were accepted tones without templates; see DESIGN.md
	types.ToneEmpathetic: {
		opening: "I am writing because I know how many people in our community are affected by %s.",
		closing: "Behind this issue are real people and families who are struggling. " +
			"I ask that you keep them in mind and respond with compassion. Thank you for listening.",
	},
	types.ToneOptimistic: {
		opening: "I am writing because I believe real progress is possible on %s.",
		closing: "With the right leadership, I believe we can turn this around. " +
			"I look forward to working with you and hearing your plans.",
	},
}

var stanceSentences = map[types.Stance]string{
	types.StanceSupport:   "I strongly support action here and hope you will too.",
	types.StanceOppose:    "I am firmly opposed to the current approach and urge you to reconsider it.",
	types.StanceNeutral:   "I am keen to understand your position before forming a final view.",
	types.StanceConcerned: "I am deeply worried about where things are heading.",
}

const (
	personalExperienceSentence = "This is not an abstract question for me; it affects my own life and the lives of people I know."
	policyIdeasSentence        = "I have some practical policy ideas and would welcome the chance to share them with your office."
	signOff                    = "Yours sincerely,"

	senderNamePlaceholder  = "[Your Name]"
	senderEmailPlaceholder = "[Your Email]"
	senderPhonePlaceholder = "[Your Phone]"

	areaFallback  = "your area"
	stateFallback = "your state"

	// dateLayout renders dates in Australian long form, e.g. "5 March 2025".
	dateLayout = "2 January 2006"
)

// SupportedTones reports the tones that have opening and closing templates.
func SupportedTones() []types.Tone {
	var tones []types.Tone
	for _, t := range types.AllTones {
		if _, ok := toneTemplates[t]; ok {
			tones = append(tones, t)
		}
	}
	return tones
}
