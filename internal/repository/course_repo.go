package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tubertify-backend/internal/models"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type CourseRepo struct {
	pool *pgxpool.Pool
}

func NewCourseRepo(pool *pgxpool.Pool) *CourseRepo {
	return &CourseRepo{pool: pool}
}

func (r *CourseRepo) Create(ctx context.Context, c *models.Course) error {
	c.ID = uuid.New()

	query := `INSERT INTO courses (id, title, description, youtube_playlist_id, youtube_url,
		thumbnail_url, tags, total_modules, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		c.ID, c.Title, c.Description, c.YouTubePlaylistID, c.YouTubeURL,
		c.ThumbnailURL, c.Tags, c.TotalModules, c.CreatedBy,
	).Scan(&c.CreatedAt)
}

func (r *CourseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	c := &models.Course{}
	query := `SELECT id, title, description, youtube_playlist_id, youtube_url,
		thumbnail_url, tags, total_modules, created_by, created_at
		FROM courses WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Description, &c.YouTubePlaylistID, &c.YouTubeURL,
		&c.ThumbnailURL, &c.Tags, &c.TotalModules, &c.CreatedBy, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// CountCreatedSince returns how many courses the user created after the
// cutoff. Drives the 24h sliding-window creation gate.
func (r *CourseRepo) CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM courses WHERE created_by = $1 AND created_at >= $2",
		userID, since,
	).Scan(&count)
	return count, err
}

// Delete removes a course; modules cascade. Used as the compensating
// step when the module insert fails after the course insert succeeded.
func (r *CourseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
	return err
}
