package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/speak-out/internal/composer"
	"github.com/jonathan/speak-out/internal/db"
	"github.com/jonathan/speak-out/internal/ingestion"
	"github.com/jonathan/speak-out/internal/letters"
	"github.com/jonathan/speak-out/internal/topics"
	"github.com/jonathan/speak-out/internal/types"
)

var validate = validator.New()

// LettersRequest is the body of POST /letters.
type LettersRequest struct {
	Candidates []types.Candidate `json:"candidates" validate:"required,min=1,max=200,dive"`
	types.LetterRequest
	Chamber    types.Chamber `json:"chamber,omitempty" validate:"omitempty,oneof=house senate"`
	Electorate string        `json:"electorate,omitempty"`
	State      string        `json:"state,omitempty"`
}

// LettersResponse is the body returned by POST /letters.
type LettersResponse struct {
	BatchID  string                     `json:"batch_id,omitempty"`
	Letters  map[string]string          `json:"letters"`
	Outcomes map[string]letters.Outcome `json:"outcomes"`
	Document *ingestion.Metadata        `json:"document,omitempty"`
	Error    string                     `json:"error,omitempty"`
}

// RegenerateRequest is the body of POST /letters/regenerate.
type RegenerateRequest struct {
	Candidate types.Candidate `json:"candidate"`
	types.LetterRequest
	Chamber    types.Chamber `json:"chamber,omitempty" validate:"omitempty,oneof=house senate"`
	Electorate string        `json:"electorate,omitempty"`
	State      string        `json:"state,omitempty"`
}

// RegenerateResponse is the body returned by POST /letters/regenerate.
type RegenerateResponse struct {
	CandidateID string          `json:"candidate_id"`
	Letter      string          `json:"letter"`
	Outcome     letters.Outcome `json:"outcome"`
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Concern string `json:"concern" validate:"required"`
}

// AnalyzeResponse is the body returned by POST /analyze. Tones lists every
// tone a letter can be written in.
type AnalyzeResponse struct {
	topics.Analysis
	Tones []types.Tone `json:"tones"`
}

// SubmissionResponse is the body returned by POST /submissions.
type SubmissionResponse struct {
	ID          string    `json:"id"`
	LetterCount int       `json:"letter_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// decodeJSON reads a size-limited JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &ErrValidation{Field: "body", Message: "request body too large"}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// prepareRequest applies server defaults and cleans any uploaded document.
func (s *Server) prepareRequest(req *types.LetterRequest) (*ingestion.Metadata, error) {
	if req.Tone == "" {
		req.Tone = s.defaultTone
	}
	if req.Stance == "" {
		req.Stance = s.defaultStance
	}
	if strings.TrimSpace(req.UploadedContent) == "" {
		req.UploadedContent = ""
		return nil, nil
	}

	text, meta, err := ingestion.Prepare(req.UploadedContent)
	if err != nil {
		return nil, &ErrValidation{Field: "uploaded_content", Message: err.Error()}
	}
	req.UploadedContent = text
	return meta, nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "disabled"}
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
		} else {
			status["database"] = "ok"
		}
	}
	s.jsonResponse(w, http.StatusOK, status)
}

// handleGenerateLetters writes one letter per candidate. A request that
// cannot be attempted at all returns 422 with an empty letters map.
func (s *Server) handleGenerateLetters(w http.ResponseWriter, r *http.Request) {
	var req LettersRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFromErr(w, err)
		return
	}

	meta, err := s.prepareRequest(&req.LetterRequest)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	batch, err := s.generator.Generate(r.Context(), req.Candidates, letters.Options{
		LetterRequest: req.LetterRequest,
		Chamber:       req.Chamber,
		Electorate:    req.Electorate,
		State:         req.State,
	})
	if err != nil {
		s.logger.Warn("letter generation failed", zap.Error(err))
		s.jsonResponse(w, http.StatusUnprocessableEntity, LettersResponse{
			Letters:  map[string]string{},
			Outcomes: map[string]letters.Outcome{},
			Error:    "generation failed, please retry",
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, LettersResponse{
		BatchID:  batch.ID,
		Letters:  batch.Letters(),
		Outcomes: batch.Outcomes(),
		Document: meta,
	})
}

// handleRegenerateLetter writes a fresh letter for one candidate.
func (s *Server) handleRegenerateLetter(w http.ResponseWriter, r *http.Request) {
	var req RegenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFromErr(w, err)
		return
	}

	if _, err := s.prepareRequest(&req.LetterRequest); err != nil {
		s.errorFromErr(w, err)
		return
	}

	result, err := s.generator.Regenerate(r.Context(), req.Candidate, letters.Options{
		LetterRequest: req.LetterRequest,
		Chamber:       req.Chamber,
		Electorate:    req.Electorate,
		State:         req.State,
	})
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, RegenerateResponse{
		CandidateID: result.CandidateID,
		Letter:      result.Letter,
		Outcome:     result.Outcome,
	})
}

// handleAnalyze reports how a concern will be classified and paraphrased.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, AnalyzeResponse{
		Analysis: topics.Analyze(req.Concern),
		Tones:    composer.SupportedTones(),
	})
}

// handleCreateSubmission saves a sender's letters.
func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorFromErr(w, &ErrStoreUnavailable{})
		return
	}

	var input db.SubmissionInput
	if err := decodeJSON(w, r, &input); err != nil {
		s.errorFromErr(w, err)
		return
	}

	submission, err := s.store.CreateSubmission(r.Context(), &input)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, SubmissionResponse{
		ID:          submission.ID.String(),
		LetterCount: submission.LetterCount,
		CreatedAt:   submission.CreatedAt,
	})
}

// handleListSubmissions returns recent submissions without letter bodies.
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorFromErr(w, &ErrStoreUnavailable{})
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	submissions, err := s.store.ListSubmissions(r.Context(), limit)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if submissions == nil {
		submissions = []db.Submission{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"submissions": submissions,
		"count":       len(submissions),
	})
}

// handleGetSubmission returns one submission with its letters.
func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorFromErr(w, &ErrStoreUnavailable{})
		return
	}

	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		s.errorFromErr(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	submission, err := s.store.GetSubmission(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if submission == nil {
		s.errorFromErr(w, &ErrNotFound{Resource: "submission", ID: raw})
		return
	}
	s.jsonResponse(w, http.StatusOK, submission)
}

// handleListGenerationLogs returns the most recent audit log rows.
func (s *Server) handleListGenerationLogs(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorFromErr(w, &ErrStoreUnavailable{})
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	logs, err := s.store.ListGenerationLogs(r.Context(), limit)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if logs == nil {
		logs = []db.GenerationLog{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"generation_logs": logs,
		"count":           len(logs),
	})
}

// parseLimit reads the optional limit query parameter. Zero means the store default.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &ErrValidation{Field: "limit", Message: "must be a positive integer"}
	}
	return n, nil
}
