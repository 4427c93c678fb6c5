package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/speak-out/internal/composer"
	"github.com/jonathan/speak-out/internal/config"
	"github.com/jonathan/speak-out/internal/db"
	"github.com/jonathan/speak-out/internal/letters"
	"github.com/jonathan/speak-out/internal/server/ratelimit"
	"github.com/jonathan/speak-out/internal/statistics"
	"github.com/jonathan/speak-out/internal/types"
)

var _ Store = (*db.DB)(nil)

type firstSource struct{}

func (firstSource) IntN(int) int { return 0 }

// memoryStore is an in-memory Store for handler tests.
type memoryStore struct {
	mu          sync.Mutex
	submissions map[uuid.UUID]*db.Submission
	order       []uuid.UUID
	logs        []db.GenerationLog
	pingErr     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{submissions: make(map[uuid.UUID]*db.Submission)}
}

func (m *memoryStore) CreateSubmission(_ context.Context, input *db.SubmissionInput) (*db.Submission, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &db.Submission{
		ID:          uuid.New(),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Concern:     input.Concern,
		Tone:        input.Tone,
		Stance:      input.Stance,
		Letters:     input.Letters,
		LetterCount: len(input.Letters),
		CreatedAt:   time.Now().UTC(),
	}
	m.submissions[s.ID] = s
	m.order = append(m.order, s.ID)
	return s, nil
}

func (m *memoryStore) GetSubmission(_ context.Context, id uuid.UUID) (*db.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submissions[id], nil
}

func (m *memoryStore) ListSubmissions(_ context.Context, limit int) ([]db.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []db.Submission
	for i := len(m.order) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		s := *m.submissions[m.order[i]]
		s.Letters = nil
		out = append(out, s)
	}
	return out, nil
}

func (m *memoryStore) LogGeneration(_ context.Context, entry letters.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logs = append(m.logs, db.GenerationLog{
		ID:             uuid.New(),
		BatchID:        entry.BatchID,
		Chamber:        string(entry.Chamber),
		Electorate:     entry.Electorate,
		State:          entry.State,
		CandidateCount: entry.CandidateCount,
		Concern:        entry.Concern,
		Tone:           string(entry.Tone),
		Stance:         string(entry.Stance),
		RequestedAt:    entry.RequestedAt,
	})
	return nil
}

func (m *memoryStore) ListGenerationLogs(_ context.Context, limit int) ([]db.GenerationLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []db.GenerationLog
	for i := len(m.logs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.logs[i])
	}
	return out, nil
}

func (m *memoryStore) Ping(context.Context) error {
	return m.pingErr
}

const testSecret = "test-secret-key-long-enough"

func newTestJWT() *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          testSecret,
		ExpirationHours: 1,
		Issuer:          config.DefaultTokenIssuer,
	})
}

type testOptions struct {
	store     Store
	jwt       *JWTService
	rateLimit *ratelimit.Config
	tone      types.Tone
	audit     letters.AuditSink
}

func newTestServer(t *testing.T, opts testOptions) *Server {
	t.Helper()

	stats := statistics.NewProvider(firstSource{})
	now := func() time.Time { return time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC) }
	gen := letters.NewGenerator(letters.Config{
		Primary:  composer.New(stats, now),
		Fallback: composer.NewLegacy(stats, now),
		Audit:    opts.audit,
	})

	rl := opts.rateLimit
	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}

	s, err := New(Config{
		Generator:   gen,
		Store:       opts.store,
		JWT:         opts.jwt,
		RateLimit:   rl,
		DefaultTone: opts.tone,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func candidates() []types.Candidate {
	return []types.Candidate{
		{ID: "house-1", Name: "Jane Doe", Chamber: types.ChamberHouse, Division: "Wentworth", Role: types.RoleMP},
		{ID: "house-2", Name: "", Chamber: types.ChamberHouse, Division: "Wentworth"},
	}
}

func TestNew_RequiresGenerator(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testOptions{})
	w := doRequest(t, s.Handler(), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disabled", body["database"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	store := newMemoryStore()
	store.pingErr = errors.New("connection refused")
	s := newTestServer(t, testOptions{store: store})

	w := doRequest(t, s.Handler(), http.MethodGet, "/health", nil)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "unreachable", body["database"])
}

func TestGenerateLetters(t *testing.T) {
	s := newTestServer(t, testOptions{})

	w := doRequest(t, s.Handler(), http.MethodPost, "/letters", map[string]any{
		"candidates": candidates(),
		"concern":    "I'm frustrated about rising rents and homelessness",
		"tone":       "direct",
		"chamber":    "house",
		"electorate": "Wentworth",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[LettersResponse](t, w)
	assert.NotEmpty(t, resp.BatchID)
	require.Len(t, resp.Letters, 2)
	assert.Contains(t, resp.Letters["house-1"], "Hon. Jane Doe")
	assert.NotContains(t, resp.Letters["house-1"], "rising rents and homelessness")
	assert.Equal(t, letters.OutcomeComposed, resp.Outcomes["house-1"])
	assert.Equal(t, letters.OutcomeFailed, resp.Outcomes["house-2"])
	assert.Equal(t, letters.Placeholder(candidates()[1]), resp.Letters["house-2"])
	assert.Nil(t, resp.Document)
}

func TestGenerateLetters_ServerDefaultTone(t *testing.T) {
	s := newTestServer(t, testOptions{tone: types.ToneDirect})

	w := doRequest(t, s.Handler(), http.MethodPost, "/letters", map[string]any{
		"candidates": candidates()[:1],
		"concern":    "school funding",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[LettersResponse](t, w)
	assert.Contains(t, resp.Letters["house-1"], "I expect a clear answer.")
}

func TestGenerateLetters_UploadedHTML(t *testing.T) {
	s := newTestServer(t, testOptions{})

	w := doRequest(t, s.Handler(), http.MethodPost, "/letters", map[string]any{
		"candidates":       candidates()[:1],
		"concern":          "rental affordability",
		"uploaded_content": "<html><body><p>Rental affordability fell 12% across Sydney in 2024.</p></body></html>",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[LettersResponse](t, w)
	require.NotNil(t, resp.Document)
	assert.Equal(t, "html", string(resp.Document.Source))
	assert.Contains(t, resp.Letters["house-1"], "12%")
}

func TestGenerateLetters_BadRequests(t *testing.T) {
	s := newTestServer(t, testOptions{})

	tests := []struct {
		name string
		body any
	}{
		{"invalid json", `{"candidates": [`},
		{"no candidates", map[string]any{"concern": "housing"}},
		{"candidate without id", map[string]any{"candidates": []map[string]string{{"name": "Jane"}}}},
		{"unknown tone", map[string]any{"candidates": candidates(), "tone": "sarcastic"}},
		{"unknown stance", map[string]any{"candidates": candidates(), "stance": "ambivalent"}},
		{"bad sender email", map[string]any{"candidates": candidates(), "sender": map[string]string{"email": "nope"}}},
		{"bad chamber", map[string]any{"candidates": candidates(), "chamber": "lords"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s.Handler(), http.MethodPost, "/letters", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestGenerateLetters_TotalFailureIs422(t *testing.T) {
	s := newTestServer(t, testOptions{})

	body, err := json.Marshal(map[string]any{"candidates": candidates(), "concern": "housing"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/letters", bytes.NewReader(body)).WithContext(ctx)
	w := httptest.NewRecorder()
	s.handleGenerateLetters(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeBody[LettersResponse](t, w)
	assert.Empty(t, resp.Letters)
	assert.NotNil(t, resp.Letters)
}

func TestRegenerateLetter(t *testing.T) {
	s := newTestServer(t, testOptions{})

	w := doRequest(t, s.Handler(), http.MethodPost, "/letters/regenerate", map[string]any{
		"candidate":        candidates()[0],
		"concern":          "your previous concern",
		"previous_concern": "climate change",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[RegenerateResponse](t, w)
	assert.Equal(t, "house-1", resp.CandidateID)
	assert.Equal(t, letters.OutcomeComposed, resp.Outcome)
	assert.Contains(t, resp.Letter, "Dear Hon. Jane Doe")
}

func TestRegenerateLetter_MissingCandidateID(t *testing.T) {
	s := newTestServer(t, testOptions{})

	w := doRequest(t, s.Handler(), http.MethodPost, "/letters/regenerate", map[string]any{
		"candidate": map[string]string{"name": "Jane"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t, testOptions{})

	w := doRequest(t, s.Handler(), http.MethodPost, "/analyze", map[string]string{
		"concern": "I care about healthcare funding",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody[map[string]any](t, w)
	assert.Equal(t, "healthcare", body["topic"])
	assert.Equal(t, "Re: Healthcare Reform and Medicare Funding Priorities", body["subject"])

	tones, ok := body["tones"].([]any)
	require.True(t, ok, "tones should be a list")
	assert.Len(t, tones, len(types.AllTones))
	assert.Contains(t, tones, "empathetic")

	w = doRequest(t, s.Handler(), http.MethodPost, "/analyze", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Concern")
}

func submissionBody() map[string]any {
	return map[string]any{
		"first_name": "Jane",
		"last_name":  "Citizen",
		"email":      "jane@example.com",
		"concern":    "housing",
		"tone":       "formal",
		"stance":     "concerned",
		"letters": []map[string]string{
			{
				"candidate_id":      "house-1",
				"candidate_name":    "Jane Doe",
				"candidate_party":   "Independent",
				"candidate_chamber": "house",
				"letter":            "Dear Hon. Jane Doe,",
			},
		},
	}
}

func TestCreateSubmission(t *testing.T) {
	store := newMemoryStore()
	s := newTestServer(t, testOptions{store: store})

	w := doRequest(t, s.Handler(), http.MethodPost, "/submissions", submissionBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeBody[SubmissionResponse](t, w)
	assert.Equal(t, 1, resp.LetterCount)
	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)

	saved, err := store.GetSubmission(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, saved.Letters, 1)
	assert.Equal(t, "Independent", saved.Letters[0].CandidateParty)
	assert.Equal(t, "house", saved.Letters[0].CandidateChamber)

	body := submissionBody()
	delete(body, "letters")
	w = doRequest(t, s.Handler(), http.MethodPost, "/submissions", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSubmission_RejectsUnknownChamber(t *testing.T) {
	s := newTestServer(t, testOptions{store: newMemoryStore()})

	body := submissionBody()
	body["letters"].([]map[string]string)[0]["candidate_chamber"] = "lords"
	w := doRequest(t, s.Handler(), http.MethodPost, "/submissions", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSubmission_NoStore(t *testing.T) {
	s := newTestServer(t, testOptions{})

	w := doRequest(t, s.Handler(), http.MethodPost, "/submissions", submissionBody())
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminSubmissions(t *testing.T) {
	store := newMemoryStore()
	jwtService := newTestJWT()
	s := newTestServer(t, testOptions{store: store, jwt: jwtService})

	for range 3 {
		w := doRequest(t, s.Handler(), http.MethodPost, "/submissions", submissionBody())
		require.Equal(t, http.StatusCreated, w.Code)
	}

	adminToken, err := jwtService.GenerateToken("ops@example.com", RoleAdmin)
	require.NoError(t, err)
	viewerToken, err := jwtService.GenerateToken("viewer@example.com", "viewer")
	require.NoError(t, err)

	w := doRequest(t, s.Handler(), http.MethodGet, "/admin/submissions", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, s.Handler(), http.MethodGet, "/admin/submissions", nil, "Authorization", "Bearer "+viewerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, s.Handler(), http.MethodGet, "/admin/submissions?limit=2", nil, "Authorization", "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[struct {
		Submissions []db.Submission `json:"submissions"`
		Count       int             `json:"count"`
	}](t, w)
	assert.Equal(t, 2, list.Count)

	w = doRequest(t, s.Handler(), http.MethodGet, "/admin/submissions?limit=zero", nil, "Authorization", "Bearer "+adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := list.Submissions[0].ID
	w = doRequest(t, s.Handler(), http.MethodGet, "/admin/submissions/"+id.String(), nil, "Authorization", "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[db.Submission](t, w)
	assert.Len(t, got.Letters, 1)

	w = doRequest(t, s.Handler(), http.MethodGet, "/admin/submissions/"+uuid.NewString(), nil, "Authorization", "Bearer "+adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, s.Handler(), http.MethodGet, "/admin/submissions/not-a-uuid", nil, "Authorization", "Bearer "+adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminGenerationLogs(t *testing.T) {
	store := newMemoryStore()
	jwtService := newTestJWT()
	s := newTestServer(t, testOptions{store: store, jwt: jwtService, audit: store})

	for _, concern := range []string{"housing", "climate change"} {
		w := doRequest(t, s.Handler(), http.MethodPost, "/letters", map[string]any{
			"candidates": candidates(),
			"concern":    concern,
			"electorate": "Wentworth",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	s.generator.Wait()

	adminToken, err := jwtService.GenerateToken("ops@example.com", RoleAdmin)
	require.NoError(t, err)

	w := doRequest(t, s.Handler(), http.MethodGet, "/admin/generation-logs", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, s.Handler(), http.MethodGet, "/admin/generation-logs", nil, "Authorization", "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[struct {
		Logs  []db.GenerationLog `json:"generation_logs"`
		Count int                `json:"count"`
	}](t, w)
	require.Equal(t, 2, list.Count)
	var concerns []string
	for _, l := range list.Logs {
		concerns = append(concerns, l.Concern)
		assert.Equal(t, "Wentworth", l.Electorate)
		assert.Equal(t, 2, l.CandidateCount)
	}
	assert.ElementsMatch(t, []string{"housing", "climate change"}, concerns)

	w = doRequest(t, s.Handler(), http.MethodGet, "/admin/generation-logs?limit=1", nil, "Authorization", "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = doRequest(t, s.Handler(), http.MethodGet, "/admin/generation-logs?limit=-3", nil, "Authorization", "Bearer "+adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_DisabledWithoutJWT(t *testing.T) {
	s := newTestServer(t, testOptions{store: newMemoryStore()})

	w := doRequest(t, s.Handler(), http.MethodGet, "/admin/submissions", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, testOptions{rateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/analyze", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
		},
	}})

	body := map[string]string{"concern": "housing"}
	w := doRequest(t, s.Handler(), http.MethodPost, "/analyze", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = doRequest(t, s.Handler(), http.MethodPost, "/analyze", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	// health is never limited
	for range 5 {
		w = doRequest(t, s.Handler(), http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, testOptions{})

	w := doRequest(t, s.Handler(), http.MethodOptions, "/letters", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization"))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&ErrValidation{Field: "x"}, http.StatusBadRequest},
		{&ErrNotFound{Resource: "submission"}, http.StatusNotFound},
		{&ErrStoreUnavailable{}, http.StatusServiceUnavailable},
		{&letters.OptionsError{Message: "bad"}, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestValidationError_NamesField(t *testing.T) {
	err := validate.Struct(&AnalyzeRequest{})
	require.Error(t, err)

	var ve *ErrValidation
	require.True(t, errors.As(validationError(err), &ve))
	assert.Equal(t, "Concern", ve.Field)
	assert.Equal(t, "is required", ve.Message)
}
