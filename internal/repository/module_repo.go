package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tubertify-backend/internal/models"
)

type ModuleRepo struct {
	pool *pgxpool.Pool
}

func NewModuleRepo(pool *pgxpool.Pool) *ModuleRepo {
	return &ModuleRepo{pool: pool}
}

// CreateBatch inserts all modules for a course in one round trip.
// Fails as a unit: any error leaves the caller to compensate.
func (r *ModuleRepo) CreateBatch(ctx context.Context, modules []*models.CourseModule) error {
	batch := &pgx.Batch{}
	query := `INSERT INTO course_modules (id, course_id, title, description,
		youtube_video_id, duration_seconds, module_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, m := range modules {
		m.ID = uuid.New()
		batch.Queue(query, m.ID, m.CourseID, m.Title, m.Description,
			m.YouTubeVideoID, m.DurationSeconds, m.ModuleOrder)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range modules {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *ModuleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CourseModule, error) {
	m := &models.CourseModule{}
	query := `SELECT id, course_id, title, description, youtube_video_id,
		duration_seconds, module_order, created_at
		FROM course_modules WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.CourseID, &m.Title, &m.Description, &m.YouTubeVideoID,
		&m.DurationSeconds, &m.ModuleOrder, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (r *ModuleRepo) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.CourseModule, error) {
	query := `SELECT id, course_id, title, description, youtube_video_id,
		duration_seconds, module_order, created_at
		FROM course_modules WHERE course_id = $1 ORDER BY module_order`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []*models.CourseModule
	for rows.Next() {
		m := &models.CourseModule{}
		err := rows.Scan(
			&m.ID, &m.CourseID, &m.Title, &m.Description, &m.YouTubeVideoID,
			&m.DurationSeconds, &m.ModuleOrder, &m.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// UpdateDuration backfills a module duration resolved by the worker pool.
func (r *ModuleRepo) UpdateDuration(ctx context.Context, id uuid.UUID, durationSeconds int) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE course_modules SET duration_seconds = $1 WHERE id = $2",
		durationSeconds, id,
	)
	return err
}
