package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tubertify-backend/internal/generation"
)

// FlagRepo records which entities carry AI-generated content. UI-only
// signal; failures here never fail a generation request.
type FlagRepo struct {
	pool *pgxpool.Pool
}

func NewFlagRepo(pool *pgxpool.Pool) *FlagRepo {
	return &FlagRepo{pool: pool}
}

func (r *FlagRepo) MarkGenerated(ctx context.Context, entityType string, entityID uuid.UUID, contentType string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO ai_content_flags (id, entity_type, entity_id, content_type, is_generated, updated_at)
		 VALUES ($1, $2, $3, $4, TRUE, NOW())
		 ON CONFLICT (entity_type, entity_id, content_type)
		 DO UPDATE SET is_generated = TRUE, updated_at = NOW()`,
		uuid.New(), entityType, entityID, contentType,
	)
	return err
}

var _ generation.ContentFlagger = (*FlagRepo)(nil)
