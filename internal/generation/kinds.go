package generation

import (
	"time"

	"github.com/google/uuid"

	"tubertify-backend/internal/models"
)

// Kind enumerates the content kinds the orchestrator can produce.
type Kind string

const (
	KindVideoSummary  Kind = "video_summary"
	KindCourseSummary Kind = "course_summary"
	KindStudyNotes    Kind = "study_notes"
	KindMCQTest       Kind = "mcq_test"
	KindChatMessage   Kind = "chat_message"
)

// policy carries the key shape and quota rules for one kind, so the
// orchestrator dispatches through data instead of per-kind branching.
type policy struct {
	usageType    string // ledger row discriminator
	dailyLimit   int
	entityScoped bool // entity id participates in the ledger key
	idempotent   bool // artifact lookup short-circuits generation
	entityType   string
	contentType  string
}

var policies = map[Kind]policy{
	KindVideoSummary:  {usageType: "video_summary", dailyLimit: 1, entityScoped: true, idempotent: true, entityType: "video", contentType: "summary"},
	KindCourseSummary: {usageType: "course_summary", dailyLimit: 1, entityScoped: true, idempotent: true, entityType: "course", contentType: "summary"},
	KindStudyNotes:    {usageType: "study_notes", dailyLimit: 1, entityScoped: true, idempotent: true, entityType: "course", contentType: "notes"},
	KindMCQTest:       {usageType: "mcq_generation", dailyLimit: 1, entityScoped: true, idempotent: true, entityType: "course", contentType: "mcq"},
	KindChatMessage:   {usageType: "tubibot_chat", dailyLimit: 10, entityScoped: false, idempotent: false},
}

// Artifact is the orchestrator's view of one piece of generated content.
// Text carries summaries/notes/chat replies; MCQ tests fill Questions.
type Artifact struct {
	ID               uuid.UUID
	Kind             Kind
	EntityID         uuid.UUID
	Text             string
	Questions        []models.McqQuestion
	PassingScore     int
	TimeLimitMinutes int
	CreatedAt        time.Time
}
