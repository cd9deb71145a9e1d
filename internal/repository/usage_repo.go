package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tubertify-backend/internal/generation"
	"tubertify-backend/internal/models"
)

// UsageRepo is the daily usage ledger over ai_usage_limits. Keys differ
// by kind: entity-scoped kinds include entity_id, chat rows keep it NULL.
type UsageRepo struct {
	pool *pgxpool.Pool
}

func NewUsageRepo(pool *pgxpool.Pool) *UsageRepo {
	return &UsageRepo{pool: pool}
}

func (r *UsageRepo) Count(ctx context.Context, userID uuid.UUID, usageType, date string, entityID *uuid.UUID) (int, error) {
	var count int
	var err error

	if entityID != nil {
		err = r.pool.QueryRow(ctx,
			`SELECT usage_count FROM ai_usage_limits
			 WHERE user_id = $1 AND usage_type = $2 AND usage_date = $3 AND entity_id = $4`,
			userID, usageType, date, *entityID,
		).Scan(&count)
	} else {
		err = r.pool.QueryRow(ctx,
			`SELECT usage_count FROM ai_usage_limits
			 WHERE user_id = $1 AND usage_type = $2 AND usage_date = $3 AND entity_id IS NULL`,
			userID, usageType, date,
		).Scan(&count)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return count, err
}

// Record upserts the ledger row, overwriting the count with the value
// the caller computed from its own read. Last write wins.
func (r *UsageRepo) Record(ctx context.Context, rec *models.UsageRecord) error {
	if rec.EntityID != nil {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO ai_usage_limits (id, user_id, usage_type, usage_date, entity_id, usage_count, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, NOW())
			 ON CONFLICT (user_id, usage_type, usage_date, entity_id) WHERE entity_id IS NOT NULL
			 DO UPDATE SET usage_count = EXCLUDED.usage_count, updated_at = NOW()`,
			uuid.New(), rec.UserID, rec.UsageType, rec.UsageDate, *rec.EntityID, rec.UsageCount,
		)
		return err
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO ai_usage_limits (id, user_id, usage_type, usage_date, entity_id, usage_count, updated_at)
		 VALUES ($1, $2, $3, $4, NULL, $5, NOW())
		 ON CONFLICT (user_id, usage_type, usage_date) WHERE entity_id IS NULL
		 DO UPDATE SET usage_count = EXCLUDED.usage_count, updated_at = NOW()`,
		uuid.New(), rec.UserID, rec.UsageType, rec.UsageDate, rec.UsageCount,
	)
	return err
}

var _ generation.UsageLedger = (*UsageRepo)(nil)
