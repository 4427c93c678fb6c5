package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateSubmission saves the sender's details and every letter in one
// transaction.
func (db *DB) CreateSubmission(ctx context.Context, input *SubmissionInput) (*Submission, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid submission: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	s := Submission{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Concern:   input.Concern,
		Tone:      input.Tone,
		Stance:    input.Stance,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO submissions (first_name, last_name, email, phone, concern, tone, stance)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		input.FirstName, input.LastName, nullIfEmpty(input.Email), nullIfEmpty(input.Phone),
		input.Concern, input.Tone, input.Stance,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	for _, l := range input.Letters {
		_, err = tx.Exec(ctx,
			`INSERT INTO submission_letters (submission_id, candidate_id, candidate_name, candidate_email,
			                                 candidate_party, candidate_chamber, letter)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (submission_id, candidate_id) DO UPDATE SET letter = $7`,
			s.ID, l.CandidateID, nullIfEmpty(l.CandidateName), nullIfEmpty(l.CandidateEmail),
			nullIfEmpty(l.CandidateParty), nullIfEmpty(l.CandidateChamber), l.Letter,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert letter for %s: %w", l.CandidateID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit submission: %w", err)
	}

	s.Letters = input.Letters
	s.LetterCount = len(input.Letters)
	return &s, nil
}

// GetSubmission retrieves a submission with its letters. It returns nil when
// no submission has the given id.
func (db *DB) GetSubmission(ctx context.Context, id uuid.UUID) (*Submission, error) {
	var s Submission
	var email, phone *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, email, phone, concern, tone, stance, created_at
		 FROM submissions WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.FirstName, &s.LastName, &email, &phone, &s.Concern, &s.Tone, &s.Stance, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	s.Email = derefString(email)
	s.Phone = derefString(phone)

	rows, err := db.pool.Query(ctx,
		`SELECT candidate_id, candidate_name, candidate_email, candidate_party, candidate_chamber, letter
		 FROM submission_letters WHERE submission_id = $1 ORDER BY created_at, candidate_id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission letters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l SubmissionLetter
		var name, candidateEmail, party, chamber *string
		if err := rows.Scan(&l.CandidateID, &name, &candidateEmail, &party, &chamber, &l.Letter); err != nil {
			return nil, fmt.Errorf("failed to scan submission letter: %w", err)
		}
		l.CandidateName = derefString(name)
		l.CandidateEmail = derefString(candidateEmail)
		l.CandidateParty = derefString(party)
		l.CandidateChamber = derefString(chamber)
		s.Letters = append(s.Letters, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read submission letters: %w", err)
	}
	s.LetterCount = len(s.Letters)
	return &s, nil
}

// ListSubmissions returns the most recent submissions without letter bodies.
func (db *DB) ListSubmissions(ctx context.Context, limit int) ([]Submission, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT s.id, s.first_name, s.last_name, s.email, s.phone, s.concern, s.tone, s.stance,
		        s.created_at, COUNT(l.id)
		 FROM submissions s
		 LEFT JOIN submission_letters l ON l.submission_id = s.id
		 GROUP BY s.id
		 ORDER BY s.created_at DESC
		 LIMIT $1`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []Submission
	for rows.Next() {
		var s Submission
		var email, phone *string
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &email, &phone, &s.Concern,
			&s.Tone, &s.Stance, &s.CreatedAt, &s.LetterCount); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		s.Email = derefString(email)
		s.Phone = derefString(phone)
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}
