package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	YouTubePlaylistID *string    `json:"youtube_playlist_id,omitempty"`
	YouTubeURL        *string    `json:"youtube_url,omitempty"`
	ThumbnailURL      string     `json:"thumbnail_url"`
	Tags              []string   `json:"tags"`
	TotalModules      int        `json:"total_modules"`
	CreatedBy         uuid.UUID  `json:"created_by"`
	CreatedAt         time.Time  `json:"created_at"`
}

type CourseModule struct {
	ID              uuid.UUID `json:"id"`
	CourseID        uuid.UUID `json:"course_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	YouTubeVideoID  string    `json:"youtube_video_id"`
	DurationSeconds int       `json:"duration_seconds"`
	ModuleOrder     int       `json:"module_order"` // 1-based position within the course
	CreatedAt       time.Time `json:"created_at"`
}

type CreateCourseRequest struct {
	URL    string    `json:"url"`
	UserID uuid.UUID `json:"user_id"`
}

type CreateCourseResponse struct {
	Course  *Course         `json:"course"`
	Modules []*CourseModule `json:"modules"`
}
