package db

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultListLimit caps list queries when the caller passes no limit.
const DefaultListLimit = 50

// MaxListLimit is the largest page a list query returns.
const MaxListLimit = 500

// GenerationLog is one row of the generation audit log.
type GenerationLog struct {
	ID             uuid.UUID `json:"id"`
	BatchID        string    `json:"batch_id"`
	Chamber        string    `json:"chamber,omitempty"`
	Electorate     string    `json:"electorate,omitempty"`
	State          string    `json:"state,omitempty"`
	CandidateCount int       `json:"candidate_count"`
	Concern        string    `json:"concern"`
	Tone           string    `json:"tone"`
	Stance         string    `json:"stance"`
	RequestedAt    time.Time `json:"requested_at"`
}

// Submission is a saved set of letters together with the sender's details.
type Submission struct {
	ID          uuid.UUID          `json:"id"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	Email       string             `json:"email,omitempty"`
	Phone       string             `json:"phone,omitempty"`
	Concern     string             `json:"concern"`
	Tone        string             `json:"tone"`
	Stance      string             `json:"stance"`
	LetterCount int                `json:"letter_count"`
	Letters     []SubmissionLetter `json:"letters,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// SubmissionLetter is one candidate's letter within a submission.
type SubmissionLetter struct {
	CandidateID      string `json:"candidate_id" validate:"required"`
	CandidateName    string `json:"candidate_name,omitempty"`
	CandidateEmail   string `json:"candidate_email,omitempty"`
	CandidateParty   string `json:"candidate_party,omitempty"`
	CandidateChamber string `json:"candidate_chamber,omitempty" validate:"omitempty,oneof=house senate"`
	Letter           string `json:"letter" validate:"required"`
}

// SubmissionInput holds the fields needed to save a submission.
type SubmissionInput struct {
	FirstName string             `json:"first_name" validate:"required"`
	LastName  string             `json:"last_name" validate:"required"`
	Email     string             `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string             `json:"phone,omitempty"`
	Concern   string             `json:"concern" validate:"required"`
	Tone      string             `json:"tone" validate:"required"`
	Stance    string             `json:"stance" validate:"required"`
	Letters   []SubmissionLetter `json:"letters" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Validate checks required fields and letter entries.
func (in *SubmissionInput) Validate() error {
	return validate.Struct(in)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
