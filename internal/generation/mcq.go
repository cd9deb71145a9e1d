package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"tubertify-backend/internal/models"
)

const (
	mcqQuestionCount    = 20
	mcqOptionCount      = 4
	mcqPassingScore     = 80
	mcqTimeLimitMinutes = 30
)

// parseMCQQuestions turns raw model output into a validated question set.
// Returns ok=false on any parse or shape failure; the caller substitutes
// the deterministic fallback instead of failing the request.
func parseMCQQuestions(raw string) ([]models.McqQuestion, bool) {
	cleaned := stripCodeFences(raw)

	var questions []models.McqQuestion

	// Accept either {"questions": [...]} or a bare array.
	var wrapper struct {
		Questions []models.McqQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wrapper); err == nil && len(wrapper.Questions) > 0 {
		questions = wrapper.Questions
	} else if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		// Last try: extract the outermost JSON array
		start := strings.Index(cleaned, "[")
		end := strings.LastIndex(cleaned, "]")
		if start < 0 || end <= start {
			return nil, false
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &questions); err != nil {
			return nil, false
		}
	}

	if len(questions) != mcqQuestionCount {
		return nil, false
	}

	for i := range questions {
		q := &questions[i]
		if strings.TrimSpace(q.Question) == "" {
			return nil, false
		}
		if len(q.Options) != mcqOptionCount {
			return nil, false
		}
		switch q.CorrectAnswer {
		case "A", "B", "C", "D":
		default:
			return nil, false
		}
		switch q.Difficulty {
		case "easy", "medium", "hard":
		default:
			q.Difficulty = "medium"
		}
	}

	return questions, true
}

func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// FallbackQuestions returns the fixed placeholder set used when the
// model's output cannot be parsed into a valid test: 20 questions,
// correct answer always "A", difficulty split easy/medium/hard 6/8/6.
func FallbackQuestions() []models.McqQuestion {
	questions := make([]models.McqQuestion, mcqQuestionCount)
	for i := range questions {
		difficulty := "hard"
		if i < 6 {
			difficulty = "easy"
		} else if i < 14 {
			difficulty = "medium"
		}
		questions[i] = models.McqQuestion{
			Question: fmt.Sprintf("Sample question %d about the course content?", i+1),
			Options: []string{
				"A) First option",
				"B) Second option",
				"C) Third option",
				"D) Fourth option",
			},
			CorrectAnswer: "A",
			Explanation:   "This is a sample explanation for the correct answer.",
			Difficulty:    difficulty,
		}
	}
	return questions
}
