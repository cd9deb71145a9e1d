package generation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"tubertify-backend/internal/apperr"
	"tubertify-backend/internal/models"
)

// ArtifactStore abstracts the per-kind artifact tables. Find returns
// (nil, nil) when nothing is stored for the key. Insert must treat a
// concurrent duplicate as benign: on a unique-key conflict it re-reads
// and returns the winner with created=false.
type ArtifactStore interface {
	Find(ctx context.Context, kind Kind, entityID uuid.UUID) (*Artifact, error)
	Insert(ctx context.Context, a *Artifact) (stored *Artifact, created bool, err error)
}

// UsageLedger is the per-(user, kind, date[, entity]) counter store.
type UsageLedger interface {
	Count(ctx context.Context, userID uuid.UUID, usageType, date string, entityID *uuid.UUID) (int, error)
	Record(ctx context.Context, rec *models.UsageRecord) error
}

// ContentFlagger marks entities that carry AI-generated content.
type ContentFlagger interface {
	MarkGenerated(ctx context.Context, entityType string, entityID uuid.UUID, contentType string) error
}

// Generator is the external text-generation call: prompt in, text out.
type Generator interface {
	Generate(ctx context.Context, kind Kind, prompt string) (string, error)
}

type Request struct {
	UserID   uuid.UUID
	Kind     Kind
	EntityID uuid.UUID // uuid.Nil for chat
	Content  string
	Chat     *ChatVars
	DateKey  string // ISO date; empty means today (server UTC)
}

type Result struct {
	Artifact  *Artifact
	Remaining int  // populated for chat: limit - used - 1
	Reused    bool // artifact was already stored; no generation happened
}

// Orchestrator runs the quota-gated idempotent generation workflow
// shared by all content kinds.
type Orchestrator struct {
	store     ArtifactStore
	ledger    UsageLedger
	flags     ContentFlagger
	generator Generator
	chatLimit int
	now       func() time.Time
}

func NewOrchestrator(store ArtifactStore, ledger UsageLedger, flags ContentFlagger, generator Generator, chatLimit int) *Orchestrator {
	return &Orchestrator{
		store:     store,
		ledger:    ledger,
		flags:     flags,
		generator: generator,
		chatLimit: chatLimit,
		now:       time.Now,
	}
}

// Lookup returns the stored artifact for an idempotent kind, or nil
// when nothing is stored. Lets callers skip expensive input gathering
// (transcript fetches) when the artifact already exists.
func (o *Orchestrator) Lookup(ctx context.Context, kind Kind, entityID uuid.UUID) (*Artifact, error) {
	pol, ok := policies[kind]
	if !ok || !pol.idempotent || entityID == uuid.Nil {
		return nil, nil
	}
	existing, err := o.store.Find(ctx, kind, entityID)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "artifact lookup", Err: err}
	}
	return existing, nil
}

// Generate produces an artifact for the request, enforcing idempotency
// and the daily quota. The steps are a sequential chain; the only
// cross-request coordination is the store's own per-row atomicity.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	pol, ok := policies[req.Kind]
	if !ok {
		return nil, apperr.NewValidationError("kind", "unknown content kind")
	}
	if pol.entityScoped && req.EntityID == uuid.Nil {
		return nil, apperr.NewValidationError("entity_id", "required for this content kind")
	}
	if req.UserID == uuid.Nil {
		return nil, apperr.NewValidationError("user_id", "required")
	}

	// Idempotency gate: an existing artifact is returned as-is, with no
	// quota check, no generator call, and no ledger mutation. Chat has
	// no entity key and skips this entirely.
	if pol.idempotent {
		existing, err := o.store.Find(ctx, req.Kind, req.EntityID)
		if err != nil {
			return nil, &apperr.PersistenceError{Op: "artifact lookup", Err: err}
		}
		if existing != nil {
			return &Result{Artifact: existing, Reused: true}, nil
		}
	}

	// Admission gate: read the ledger and refuse once the day's quota
	// is spent. For entity kinds this backstops races the idempotency
	// read can miss.
	dateKey := req.DateKey
	if dateKey == "" {
		dateKey = o.now().UTC().Format("2006-01-02")
	}

	limit := pol.dailyLimit
	if req.Kind == KindChatMessage && o.chatLimit > 0 {
		limit = o.chatLimit
	}

	var entityKey *uuid.UUID
	if pol.entityScoped {
		id := req.EntityID
		entityKey = &id
	}

	used, err := o.ledger.Count(ctx, req.UserID, pol.usageType, dateKey, entityKey)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "usage lookup", Err: err}
	}
	if used >= limit {
		return nil, &apperr.RateLimitError{Message: quotaMessage(req.Kind, limit)}
	}

	// Generation. Upstream failures propagate; no partial state exists yet.
	raw, err := o.generator.Generate(ctx, req.Kind, buildPrompt(req))
	if err != nil {
		return nil, &apperr.UpstreamError{
			Code:    "GENERATION_FAILED",
			Message: "content generation failed",
			Err:     err,
		}
	}

	artifact := &Artifact{
		Kind:     req.Kind,
		EntityID: req.EntityID,
		Text:     raw,
	}

	// Kind-specific parse. Malformed MCQ output never fails the request;
	// the deterministic fallback set keeps the artifact usable.
	if req.Kind == KindMCQTest {
		questions, parsed := parseMCQQuestions(raw)
		if !parsed {
			log.Printf("mcq output for course %s unparseable, using fallback set", req.EntityID)
			questions = FallbackQuestions()
		}
		artifact.Text = ""
		artifact.Questions = questions
		artifact.PassingScore = mcqPassingScore
		artifact.TimeLimitMinutes = mcqTimeLimitMinutes
	}

	if pol.idempotent {
		stored, created, err := o.store.Insert(ctx, artifact)
		if err != nil {
			return nil, &apperr.PersistenceError{Op: "artifact insert", Err: err}
		}
		if !created {
			// A concurrent request won the insert race. Return its
			// artifact and leave the ledger alone.
			return &Result{Artifact: stored, Reused: true}, nil
		}
		artifact = stored

		if o.flags != nil {
			if err := o.flags.MarkGenerated(ctx, pol.entityType, req.EntityID, pol.contentType); err != nil {
				log.Printf("failed to flag %s %s as generated: %v", pol.entityType, req.EntityID, err)
			}
		}
	}

	// Record usage last. The new count comes from our own read
	// (last-write-wins upsert), matching concurrent-writer tolerance.
	rec := &models.UsageRecord{
		UserID:     req.UserID,
		UsageType:  pol.usageType,
		UsageDate:  dateKey,
		EntityID:   entityKey,
		UsageCount: used + 1,
	}
	if err := o.ledger.Record(ctx, rec); err != nil {
		// The artifact is already committed; an unrecorded use is the
		// lesser inconsistency. Log and return the artifact.
		log.Printf("failed to record %s usage for user %s: %v", pol.usageType, req.UserID, err)
	}

	result := &Result{Artifact: artifact}
	if req.Kind == KindChatMessage {
		result.Remaining = limit - used - 1
	}
	return result, nil
}

func quotaMessage(kind Kind, limit int) string {
	switch kind {
	case KindChatMessage:
		return fmt.Sprintf("Daily limit reached. You can ask %d questions per day.", limit)
	case KindMCQTest:
		return "MCQ test already generated for this course"
	case KindStudyNotes:
		return "Study notes already generated for this course"
	default:
		return "Summary already generated for this item"
	}
}
