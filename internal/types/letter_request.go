package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Stance is the user's declared position on their concern.
type Stance string

// Stance values
const (
	StanceSupport   Stance = "support"
	StanceOppose    Stance = "oppose"
	StanceNeutral   Stance = "neutral"
	StanceConcerned Stance = "concerned"
)

// Tone selects the opening and closing phrasing of a letter.
type Tone string

// Tone values
const (
	ToneFormal     Tone = "formal"
	TonePassionate Tone = "passionate"
	ToneDirect     Tone = "direct"
	ToneHopeful    Tone = "hopeful"
	ToneEmpathetic Tone = "empathetic"
	ToneOptimistic Tone = "optimistic"
)

// Defaults applied when a request leaves tone or stance blank.
const (
	DefaultTone   = ToneFormal
	DefaultStance = StanceConcerned
)

// AllTones lists every accepted tone in declaration order.
var AllTones = []Tone{ToneFormal, TonePassionate, ToneDirect, ToneHopeful, ToneEmpathetic, ToneOptimistic}

// AllStances lists every accepted stance in declaration order.
var AllStances = []Stance{StanceSupport, StanceOppose, StanceNeutral, StanceConcerned}

// SenderDetails holds optional details used in the letter signature block.
type SenderDetails struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}

// FullName joins first and last name, returning "" when both are blank.
func (s *SenderDetails) FullName() string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
}

// LetterRequest holds the user-supplied inputs for one generation call.
type LetterRequest struct {
	Concern            string         `json:"concern"`
	UploadedContent    string         `json:"uploaded_content,omitempty"`
	Tone               Tone           `json:"tone,omitempty" validate:"omitempty,oneof=formal passionate direct hopeful empathetic optimistic"`
	Stance             Stance         `json:"stance,omitempty" validate:"omitempty,oneof=support oppose neutral concerned"`
	PersonalExperience string         `json:"personal_experience,omitempty"`
	PolicyIdeas        string         `json:"policy_ideas,omitempty"`
	PreviousConcern    string         `json:"previous_concern,omitempty"`
	Sender             *SenderDetails `json:"sender,omitempty"`
}

// Validate validates the LetterRequest using the validator.
func (r *LetterRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// WithDefaults returns a copy of the request with blank tone and stance filled.
func (r LetterRequest) WithDefaults() LetterRequest {
	if r.Tone == "" {
		r.Tone = DefaultTone
	}
	if r.Stance == "" {
		r.Stance = DefaultStance
	}
	return r
}
