package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"tubertify-backend/internal/apperr"
	"tubertify-backend/internal/generation"
	"tubertify-backend/internal/models"
	"tubertify-backend/internal/services"
)

type moduleGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.CourseModule, error)
}

type transcriptFetcher interface {
	GetTranscript(videoID string) (string, error)
}

// AIHandler fronts the generation orchestrator for all content kinds.
type AIHandler struct {
	orch        *generation.Orchestrator
	modules     moduleGetter
	transcripts transcriptFetcher
	events      *services.EventPublisher
}

func NewAIHandler(orch *generation.Orchestrator, modules moduleGetter, transcripts transcriptFetcher, events *services.EventPublisher) *AIHandler {
	return &AIHandler{
		orch:        orch,
		modules:     modules,
		transcripts: transcripts,
		events:      events,
	}
}

// GenerateSummary produces a video or course summary.
func (h *AIHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	var kind generation.Kind
	switch req.Type {
	case "video":
		kind = generation.KindVideoSummary
	case "course":
		kind = generation.KindCourseSummary
	default:
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "type must be \"video\" or \"course\"", r))
		return
	}

	if req.EntityID == uuid.Nil || req.UserID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing required fields", r))
		return
	}

	content := req.Content
	if content == "" {
		if kind != generation.KindVideoSummary {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing required fields", r))
			return
		}

		// A stored summary makes the transcript fetch pointless; check
		// before paying for it. Generate re-checks under its own gate.
		existing, err := h.orch.Lookup(r.Context(), kind, req.EntityID)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		if existing != nil {
			writeJSON(w, http.StatusOK, map[string]string{"summary": existing.Text})
			return
		}

		// Video summaries can source their own transcript when the
		// client sends no content.
		module, err := h.modules.GetByID(r.Context(), req.EntityID)
		if err != nil {
			handleServiceError(w, r, &apperr.PersistenceError{Op: "module lookup", Err: err})
			return
		}
		if module == nil {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Module not found", r))
			return
		}
		content, err = h.transcripts.GetTranscript(module.YouTubeVideoID)
		if err != nil {
			handleServiceError(w, r, &apperr.UpstreamError{
				Code: "METADATA_FAILED", Message: "failed to fetch transcript", Err: err,
			})
			return
		}
	}

	res, err := h.orch.Generate(r.Context(), generation.Request{
		UserID:   req.UserID,
		Kind:     kind,
		EntityID: req.EntityID,
		Content:  content,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.notify(r.Context(), req.UserID, res, string(kind))
	writeJSON(w, http.StatusOK, map[string]string{"summary": res.Artifact.Text})
}

// GenerateNotes produces study notes for a course.
func (h *AIHandler) GenerateNotes(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.CourseID == uuid.Nil || req.UserID == uuid.Nil || strings.TrimSpace(req.CourseContent) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing required fields", r))
		return
	}

	res, err := h.orch.Generate(r.Context(), generation.Request{
		UserID:   req.UserID,
		Kind:     generation.KindStudyNotes,
		EntityID: req.CourseID,
		Content:  req.CourseContent,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.notify(r.Context(), req.UserID, res, string(generation.KindStudyNotes))
	writeJSON(w, http.StatusOK, map[string]string{"notes": res.Artifact.Text})
}

// GenerateMCQ produces the 20-question test for a course.
func (h *AIHandler) GenerateMCQ(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateMCQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.CourseID == uuid.Nil || req.UserID == uuid.Nil || strings.TrimSpace(req.CourseContent) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing required fields", r))
		return
	}

	res, err := h.orch.Generate(r.Context(), generation.Request{
		UserID:   req.UserID,
		Kind:     generation.KindMCQTest,
		EntityID: req.CourseID,
		Content:  req.CourseContent,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.notify(r.Context(), req.UserID, res, string(generation.KindMCQTest))
	writeJSON(w, http.StatusOK, map[string]*models.Test{"test": {
		ID:               res.Artifact.ID,
		CourseID:         res.Artifact.EntityID,
		Questions:        res.Artifact.Questions,
		PassingScore:     res.Artifact.PassingScore,
		TimeLimitMinutes: res.Artifact.TimeLimitMinutes,
		CreatedAt:        res.Artifact.CreatedAt,
	}})
}

// Chat answers a learner question, bounded by the daily chat quota.
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.UserID == uuid.Nil || strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing required fields", r))
		return
	}

	res, err := h.orch.Generate(r.Context(), generation.Request{
		UserID:  req.UserID,
		Kind:    generation.KindChatMessage,
		Content: req.Question,
		Chat: &generation.ChatVars{
			Question:        req.Question,
			LearningHistory: req.LearningHistory,
			CurrentCourse:   req.CurrentCourse,
		},
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Response:           res.Artifact.Text,
		RemainingQuestions: res.Remaining,
	})
}

func (h *AIHandler) notify(ctx context.Context, userID uuid.UUID, res *generation.Result, kind string) {
	if h.events == nil || res.Reused {
		return
	}
	h.events.Publish(ctx, userID, models.Event{
		Type: "generation_complete",
		Payload: map[string]string{
			"kind":      kind,
			"entity_id": res.Artifact.EntityID.String(),
		},
	})
}
