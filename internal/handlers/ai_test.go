package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"tubertify-backend/internal/generation"
	"tubertify-backend/internal/models"
)

// ─── Fakes ───

type memStore struct {
	artifacts map[string]*generation.Artifact
}

func (s *memStore) key(kind generation.Kind, id uuid.UUID) string {
	return string(kind) + ":" + id.String()
}

func (s *memStore) Find(ctx context.Context, kind generation.Kind, entityID uuid.UUID) (*generation.Artifact, error) {
	return s.artifacts[s.key(kind, entityID)], nil
}

func (s *memStore) Insert(ctx context.Context, a *generation.Artifact) (*generation.Artifact, bool, error) {
	key := s.key(a.Kind, a.EntityID)
	if existing, ok := s.artifacts[key]; ok {
		return existing, false, nil
	}
	a.ID = uuid.New()
	s.artifacts[key] = a
	return a, true, nil
}

type memLedger struct {
	counts map[string]int
}

func (l *memLedger) key(userID uuid.UUID, usageType, date string, entityID *uuid.UUID) string {
	entity := "-"
	if entityID != nil {
		entity = entityID.String()
	}
	return fmt.Sprintf("%s|%s|%s|%s", userID, usageType, date, entity)
}

func (l *memLedger) Count(ctx context.Context, userID uuid.UUID, usageType, date string, entityID *uuid.UUID) (int, error) {
	return l.counts[l.key(userID, usageType, date, entityID)], nil
}

func (l *memLedger) Record(ctx context.Context, rec *models.UsageRecord) error {
	l.counts[l.key(rec.UserID, rec.UsageType, rec.UsageDate, rec.EntityID)] = rec.UsageCount
	return nil
}

type memFlags struct{}

func (memFlags) MarkGenerated(ctx context.Context, entityType string, entityID uuid.UUID, contentType string) error {
	return nil
}

type stubGenerator struct {
	output string
	err    error
	calls  int
}

func (g *stubGenerator) Generate(ctx context.Context, kind generation.Kind, prompt string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.output, nil
}

type stubModules struct {
	module *models.CourseModule
}

func (s *stubModules) GetByID(ctx context.Context, id uuid.UUID) (*models.CourseModule, error) {
	return s.module, nil
}

type stubTranscripts struct {
	text  string
	err   error
	calls int
}

func (s *stubTranscripts) GetTranscript(videoID string) (string, error) {
	s.calls++
	return s.text, s.err
}

func newTestAIHandler(gen *stubGenerator) *AIHandler {
	store := &memStore{artifacts: make(map[string]*generation.Artifact)}
	ledger := &memLedger{counts: make(map[string]int)}
	orch := generation.NewOrchestrator(store, ledger, memFlags{}, gen, 10)
	modules := &stubModules{module: &models.CourseModule{
		ID:             uuid.New(),
		YouTubeVideoID: "dQw4w9WgXcQ",
	}}
	transcripts := &stubTranscripts{text: "the transcript text"}
	return NewAIHandler(orch, modules, transcripts, nil)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

// ─── Summary Handler Tests ───

func TestGenerateSummary_Video(t *testing.T) {
	gen := &stubGenerator{output: "a concise video summary"}
	h := newTestAIHandler(gen)

	w := postJSON(t, h.GenerateSummary, models.GenerateSummaryRequest{
		Type:     "video",
		EntityID: uuid.New(),
		UserID:   uuid.New(),
		Content:  "transcript text",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["summary"] != "a concise video summary" {
		t.Errorf("unexpected summary %q", resp["summary"])
	}
}

func TestGenerateSummary_FetchesTranscriptWhenContentMissing(t *testing.T) {
	gen := &stubGenerator{output: "summary from fetched transcript"}
	h := newTestAIHandler(gen)

	w := postJSON(t, h.GenerateSummary, models.GenerateSummaryRequest{
		Type:     "video",
		EntityID: uuid.New(),
		UserID:   uuid.New(),
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gen.calls != 1 {
		t.Errorf("expected one generator call, got %d", gen.calls)
	}
}

func TestGenerateSummary_CourseRequiresContent(t *testing.T) {
	h := newTestAIHandler(&stubGenerator{output: "x"})

	w := postJSON(t, h.GenerateSummary, models.GenerateSummaryRequest{
		Type:     "course",
		EntityID: uuid.New(),
		UserID:   uuid.New(),
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if decodeError(t, w).Error.Code != "VALIDATION_ERROR" {
		t.Error("expected VALIDATION_ERROR code")
	}
}

func TestGenerateSummary_RejectsUnknownType(t *testing.T) {
	h := newTestAIHandler(&stubGenerator{output: "x"})

	w := postJSON(t, h.GenerateSummary, models.GenerateSummaryRequest{
		Type:     "podcast",
		EntityID: uuid.New(),
		UserID:   uuid.New(),
		Content:  "text",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGenerateSummary_SecondCallDoesNotRegenerate(t *testing.T) {
	gen := &stubGenerator{output: "the one summary"}
	h := newTestAIHandler(gen)

	req := models.GenerateSummaryRequest{
		Type:     "course",
		EntityID: uuid.New(),
		UserID:   uuid.New(),
		Content:  "module summaries",
	}

	for i := 0; i < 2; i++ {
		w := postJSON(t, h.GenerateSummary, req)
		if w.Code != http.StatusOK {
			t.Fatalf("call %d: expected 200, got %d", i+1, w.Code)
		}
	}
	if gen.calls != 1 {
		t.Errorf("expected one generator call across both requests, got %d", gen.calls)
	}
}

func TestGenerateSummary_StoredSummarySkipsTranscriptFetch(t *testing.T) {
	gen := &stubGenerator{output: "the one summary"}
	store := &memStore{artifacts: make(map[string]*generation.Artifact)}
	ledger := &memLedger{counts: make(map[string]int)}
	orch := generation.NewOrchestrator(store, ledger, memFlags{}, gen, 10)
	modules := &stubModules{module: &models.CourseModule{
		ID:             uuid.New(),
		YouTubeVideoID: "dQw4w9WgXcQ",
	}}
	transcripts := &stubTranscripts{text: "the transcript text"}
	h := NewAIHandler(orch, modules, transcripts, nil)

	req := models.GenerateSummaryRequest{
		Type:     "video",
		EntityID: uuid.New(),
		UserID:   uuid.New(),
	}

	for i := 0; i < 2; i++ {
		w := postJSON(t, h.GenerateSummary, req)
		if w.Code != http.StatusOK {
			t.Fatalf("call %d: expected 200, got %d: %s", i+1, w.Code, w.Body.String())
		}
		var resp map[string]string
		json.NewDecoder(w.Body).Decode(&resp)
		if resp["summary"] != "the one summary" {
			t.Errorf("call %d: unexpected summary %q", i+1, resp["summary"])
		}
	}
	// The repeat request should be served from the stored artifact
	// without touching the transcript source or the generator again.
	if transcripts.calls != 1 {
		t.Errorf("expected one transcript fetch across both requests, got %d", transcripts.calls)
	}
	if gen.calls != 1 {
		t.Errorf("expected one generator call across both requests, got %d", gen.calls)
	}
}

// ─── MCQ Handler Tests ───

func TestGenerateMCQ_FallbackOnBadModelOutput(t *testing.T) {
	h := newTestAIHandler(&stubGenerator{output: "no json here"})

	w := postJSON(t, h.GenerateMCQ, models.GenerateMCQRequest{
		CourseID:      uuid.New(),
		UserID:        uuid.New(),
		CourseContent: "course content",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]models.Test
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	test := resp["test"]
	if len(test.Questions) != 20 {
		t.Errorf("expected 20 questions, got %d", len(test.Questions))
	}
	if test.PassingScore != 80 || test.TimeLimitMinutes != 30 {
		t.Errorf("unexpected test metadata: score %d, limit %d", test.PassingScore, test.TimeLimitMinutes)
	}
}

func TestGenerateMCQ_MissingFields(t *testing.T) {
	h := newTestAIHandler(&stubGenerator{output: "x"})

	w := postJSON(t, h.GenerateMCQ, models.GenerateMCQRequest{
		UserID:        uuid.New(),
		CourseContent: "content",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

// ─── Chat Handler Tests ───

func TestChat_ReturnsRemainingQuestions(t *testing.T) {
	h := newTestAIHandler(&stubGenerator{output: "Keep going, you're doing great!"})

	w := postJSON(t, h.Chat, models.ChatRequest{
		UserID:   uuid.New(),
		Question: "How should I study today?",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.ChatResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Response != "Keep going, you're doing great!" {
		t.Errorf("unexpected response %q", resp.Response)
	}
	if resp.RemainingQuestions != 9 {
		t.Errorf("expected 9 remaining questions, got %d", resp.RemainingQuestions)
	}
}

func TestChat_QuotaExhaustedReturns429(t *testing.T) {
	gen := &stubGenerator{output: "reply"}
	h := newTestAIHandler(gen)

	userID := uuid.New()
	req := models.ChatRequest{UserID: userID, Question: "hello?"}

	for i := 0; i < 10; i++ {
		if w := postJSON(t, h.Chat, req); w.Code != http.StatusOK {
			t.Fatalf("call %d: expected 200, got %d", i+1, w.Code)
		}
	}

	w := postJSON(t, h.Chat, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("11th call: expected 429, got %d", w.Code)
	}
	if decodeError(t, w).Error.Code != "RATE_LIMITED" {
		t.Error("expected RATE_LIMITED code")
	}
	if gen.calls != 10 {
		t.Errorf("expected 10 generator calls, got %d", gen.calls)
	}
}

func TestChat_MissingQuestion(t *testing.T) {
	h := newTestAIHandler(&stubGenerator{output: "x"})

	w := postJSON(t, h.Chat, models.ChatRequest{UserID: uuid.New()})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestChat_InvalidBody(t *testing.T) {
	h := newTestAIHandler(&stubGenerator{output: "x"})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	h.Chat(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestChat_GeneratorFailureReturns500(t *testing.T) {
	h := newTestAIHandler(&stubGenerator{err: fmt.Errorf("model unavailable")})

	w := postJSON(t, h.Chat, models.ChatRequest{UserID: uuid.New(), Question: "hi"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if decodeError(t, w).Error.Code != "GENERATION_FAILED" {
		t.Error("expected GENERATION_FAILED code")
	}
}
