package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"tubertify-backend/internal/apperr"
	"tubertify-backend/internal/models"
)

// tagVocabulary is the fixed keyword list tags are drawn from.
// Vocabulary order is the output order; matching is case-insensitive
// substring presence.
var tagVocabulary = []string{
	"programming", "tutorial", "education", "technology", "web development",
	"javascript", "python", "react", "nodejs", "css", "html", "database",
	"machine learning", "ai", "data science", "business", "marketing",
}

const maxCourseTags = 5

// ExtractTags derives up to five tags from the course title and
// description. Pure function of its input and the fixed vocabulary.
// Always returns a non-nil slice; zero matches is a valid outcome and
// must persist as an empty array, not NULL.
func ExtractTags(text string) []string {
	lower := strings.ToLower(text)
	tags := []string{}
	for _, tag := range tagVocabulary {
		if strings.Contains(lower, tag) {
			tags = append(tags, tag)
			if len(tags) == maxCourseTags {
				break
			}
		}
	}
	return tags
}

type courseStore interface {
	Create(ctx context.Context, c *models.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type moduleStore interface {
	CreateBatch(ctx context.Context, modules []*models.CourseModule) error
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.CourseModule, error)
}

type metadataFetcher interface {
	GetVideoInfo(ctx context.Context, videoID string) (*VideoInfo, error)
	GetPlaylistInfo(ctx context.Context, playlistID string) (*PlaylistInfo, error)
}

type durationEnqueuer interface {
	Enqueue(ctx context.Context, moduleID uuid.UUID, videoID string) error
}

// CourseService turns a YouTube URL into a course with its modules,
// behind a sliding-window creation gate.
type CourseService struct {
	courses     courseStore
	modules     moduleStore
	youtube     metadataFetcher
	backfill    durationEnqueuer
	windowHours int
	now         func() time.Time
}

func NewCourseService(courses courseStore, modules moduleStore, youtube metadataFetcher, backfill durationEnqueuer, windowHours int) *CourseService {
	return &CourseService{
		courses:     courses,
		modules:     modules,
		youtube:     youtube,
		backfill:    backfill,
		windowHours: windowHours,
		now:         time.Now,
	}
}

// CreateCourse runs the creation workflow: rate gate, URL
// classification, metadata fetch, tag extraction, persist. The course
// and module inserts are two steps; a failed module insert triggers a
// compensating course delete so no partial course survives.
func (s *CourseService) CreateCourse(ctx context.Context, sourceURL string, userID uuid.UUID) (*models.Course, []*models.CourseModule, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return nil, nil, apperr.NewValidationError("url", "required")
	}
	if userID == uuid.Nil {
		return nil, nil, apperr.NewValidationError("user_id", "required")
	}

	// Sliding-window gate: one course per window, measured from the
	// newest existing course, not a calendar day.
	since := s.now().Add(-time.Duration(s.windowHours) * time.Hour)
	recent, err := s.courses.CountCreatedSince(ctx, userID, since)
	if err != nil {
		return nil, nil, &apperr.PersistenceError{Op: "course rate check", Err: err}
	}
	if recent > 0 {
		return nil, nil, &apperr.RateLimitError{
			Message: "Rate limit exceeded. You can create 1 course per 24 hours.",
		}
	}

	if !IsYouTubeURL(sourceURL) {
		return nil, nil, apperr.NewValidationError("url", "Invalid YouTube URL")
	}
	playlistID, hasPlaylist := ExtractYouTubePlaylistID(sourceURL)
	videoID, hasVideo := ExtractYouTubeVideoID(sourceURL)
	if !hasPlaylist && !hasVideo {
		return nil, nil, apperr.NewValidationError("url", "Invalid YouTube URL")
	}

	course := &models.Course{CreatedBy: userID}
	var entries []VideoInfo

	if hasPlaylist {
		info, err := s.youtube.GetPlaylistInfo(ctx, playlistID)
		if err != nil {
			return nil, nil, &apperr.UpstreamError{Code: "METADATA_FAILED", Message: "failed to fetch playlist metadata", Err: err}
		}
		id := playlistID
		course.Title = info.Title
		course.Description = info.Description
		course.YouTubePlaylistID = &id
		course.ThumbnailURL = info.Thumbnail
		course.TotalModules = len(info.Videos)
		entries = info.Videos
	} else {
		info, err := s.youtube.GetVideoInfo(ctx, videoID)
		if err != nil {
			return nil, nil, &apperr.UpstreamError{Code: "METADATA_FAILED", Message: "failed to fetch video metadata", Err: err}
		}
		url := sourceURL
		course.Title = info.Title
		course.Description = info.Description
		course.YouTubeURL = &url
		course.ThumbnailURL = info.Thumbnail
		course.TotalModules = 1
		entries = []VideoInfo{*info}
	}

	course.Tags = ExtractTags(course.Title + " " + course.Description)

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, nil, &apperr.PersistenceError{Op: "course insert", Err: err}
	}

	modules := make([]*models.CourseModule, len(entries))
	for i, v := range entries {
		modules[i] = &models.CourseModule{
			CourseID:        course.ID,
			Title:           v.Title,
			Description:     v.Description,
			YouTubeVideoID:  v.VideoID,
			DurationSeconds: v.DurationSeconds,
			ModuleOrder:     i + 1,
		}
	}

	if err := s.modules.CreateBatch(ctx, modules); err != nil {
		// Compensating step: never leave a course without its modules.
		if delErr := s.courses.Delete(ctx, course.ID); delErr != nil {
			log.Printf("compensation failed, course %s left without modules: %v", course.ID, delErr)
		}
		return nil, nil, &apperr.PersistenceError{Op: "module insert", Err: err}
	}

	// Playlist listings sometimes omit durations; resolve those in the
	// background rather than blocking creation.
	if s.backfill != nil {
		for _, m := range modules {
			if m.DurationSeconds == 0 {
				if err := s.backfill.Enqueue(ctx, m.ID, m.YouTubeVideoID); err != nil {
					log.Printf("failed to enqueue duration backfill for module %s: %v", m.ID, err)
				}
			}
		}
	}

	return course, modules, nil
}

// GetCourse loads a course with its ordered modules.
func (s *CourseService) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, []*models.CourseModule, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, nil, &apperr.PersistenceError{Op: "course lookup", Err: err}
	}
	if course == nil {
		return nil, nil, &apperr.NotFoundError{Message: "Course not found"}
	}

	modules, err := s.modules.ListByCourse(ctx, id)
	if err != nil {
		return nil, nil, &apperr.PersistenceError{Op: "module lookup", Err: err}
	}
	return course, modules, nil
}
