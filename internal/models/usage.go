package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord is one row of the daily usage ledger. EntityID is nil for
// kinds scoped per user per day (chat); set for entity-scoped kinds.
// Rows are created on first use and incremented thereafter, never deleted.
type UsageRecord struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	UsageType  string     `json:"usage_type"`
	UsageDate  string     `json:"usage_date"` // ISO date, server UTC
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	UsageCount int        `json:"usage_count"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ContentFlag marks an entity as carrying AI-generated content of a
// given type. Display-only signal for clients.
type ContentFlag struct {
	EntityType  string    `json:"entity_type"` // "video" | "course"
	EntityID    uuid.UUID `json:"entity_id"`
	ContentType string    `json:"content_type"` // "summary" | "notes" | "mcq"
	IsGenerated bool      `json:"is_generated"`
}
