package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tubertify-backend/internal/generation"
)

// artifactTable maps a content kind to its table and entity column.
var artifactTables = map[generation.Kind]struct {
	table    string
	idColumn string
}{
	generation.KindVideoSummary:  {"video_summaries", "module_id"},
	generation.KindCourseSummary: {"course_summaries", "course_id"},
	generation.KindStudyNotes:    {"study_notes", "course_id"},
	// MCQ tests use dedicated queries; questions are JSONB.
}

// ArtifactRepo persists generated artifacts across their per-kind
// tables. Each table holds at most one row per entity, enforced by a
// unique constraint; Insert treats a conflict as "a concurrent writer
// already stored it" and returns the existing row.
type ArtifactRepo struct {
	pool *pgxpool.Pool
}

func NewArtifactRepo(pool *pgxpool.Pool) *ArtifactRepo {
	return &ArtifactRepo{pool: pool}
}

func (r *ArtifactRepo) Find(ctx context.Context, kind generation.Kind, entityID uuid.UUID) (*generation.Artifact, error) {
	if kind == generation.KindMCQTest {
		return r.findTest(ctx, entityID)
	}

	t, ok := artifactTables[kind]
	if !ok {
		return nil, fmt.Errorf("kind %q has no artifact table", kind)
	}

	a := &generation.Artifact{Kind: kind, EntityID: entityID}
	textColumn := "summary_text"
	if kind == generation.KindStudyNotes {
		textColumn = "notes_content"
	}

	query := fmt.Sprintf("SELECT id, %s, created_at FROM %s WHERE %s = $1",
		textColumn, t.table, t.idColumn)

	err := r.pool.QueryRow(ctx, query, entityID).Scan(&a.ID, &a.Text, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (r *ArtifactRepo) Insert(ctx context.Context, a *generation.Artifact) (*generation.Artifact, bool, error) {
	if a.Kind == generation.KindMCQTest {
		return r.insertTest(ctx, a)
	}

	t, ok := artifactTables[a.Kind]
	if !ok {
		return nil, false, fmt.Errorf("kind %q has no artifact table", a.Kind)
	}

	textColumn := "summary_text"
	if a.Kind == generation.KindStudyNotes {
		textColumn = "notes_content"
	}

	a.ID = uuid.New()
	query := fmt.Sprintf("INSERT INTO %s (id, %s, %s) VALUES ($1, $2, $3) RETURNING created_at",
		t.table, t.idColumn, textColumn)

	err := r.pool.QueryRow(ctx, query, a.ID, a.EntityID, a.Text).Scan(&a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			existing, findErr := r.Find(ctx, a.Kind, a.EntityID)
			if findErr != nil {
				return nil, false, findErr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return a, true, nil
}

func (r *ArtifactRepo) findTest(ctx context.Context, courseID uuid.UUID) (*generation.Artifact, error) {
	a := &generation.Artifact{Kind: generation.KindMCQTest, EntityID: courseID}
	var questionsJSON []byte

	query := `SELECT id, questions, passing_score, time_limit_minutes, created_at
		FROM tests WHERE course_id = $1`

	err := r.pool.QueryRow(ctx, query, courseID).Scan(
		&a.ID, &questionsJSON, &a.PassingScore, &a.TimeLimitMinutes, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(questionsJSON, &a.Questions); err != nil {
		return nil, fmt.Errorf("stored test %s has corrupt questions: %w", a.ID, err)
	}
	return a, nil
}

func (r *ArtifactRepo) insertTest(ctx context.Context, a *generation.Artifact) (*generation.Artifact, bool, error) {
	questionsJSON, err := json.Marshal(a.Questions)
	if err != nil {
		return nil, false, err
	}

	a.ID = uuid.New()
	query := `INSERT INTO tests (id, course_id, questions, passing_score, time_limit_minutes)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`

	err = r.pool.QueryRow(ctx, query,
		a.ID, a.EntityID, questionsJSON, a.PassingScore, a.TimeLimitMinutes,
	).Scan(&a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			existing, findErr := r.findTest(ctx, a.EntityID)
			if findErr != nil {
				return nil, false, findErr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return a, true, nil
}

// interface check
var _ generation.ArtifactStore = (*ArtifactRepo)(nil)
