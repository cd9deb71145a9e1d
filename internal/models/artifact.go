package models

import (
	"time"

	"github.com/google/uuid"
)

// McqQuestion is a single multiple-choice entry. Options carry their
// labels inline ("A) ...") and CorrectAnswer is the bare label.
type McqQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"` // "easy" | "medium" | "hard"
}

type Test struct {
	ID               uuid.UUID     `json:"id"`
	CourseID         uuid.UUID     `json:"course_id"`
	Questions        []McqQuestion `json:"questions"`
	PassingScore     int           `json:"passing_score"`
	TimeLimitMinutes int           `json:"time_limit_minutes"`
	CreatedAt        time.Time     `json:"created_at"`
}

type GenerateSummaryRequest struct {
	Type     string    `json:"type"` // "video" | "course"
	EntityID uuid.UUID `json:"entity_id"`
	UserID   uuid.UUID `json:"user_id"`
	Content  string    `json:"content"`
}

type GenerateNotesRequest struct {
	CourseID      uuid.UUID `json:"course_id"`
	UserID        uuid.UUID `json:"user_id"`
	CourseContent string    `json:"course_content"`
}

type GenerateMCQRequest struct {
	CourseID      uuid.UUID `json:"course_id"`
	UserID        uuid.UUID `json:"user_id"`
	CourseContent string    `json:"course_content"`
}

type ChatRequest struct {
	UserID          uuid.UUID `json:"user_id"`
	Question        string    `json:"question"`
	LearningHistory string    `json:"learning_history,omitempty"`
	CurrentCourse   string    `json:"current_course,omitempty"`
}

type ChatResponse struct {
	Response           string `json:"response"`
	RemainingQuestions int    `json:"remaining_questions"`
}
