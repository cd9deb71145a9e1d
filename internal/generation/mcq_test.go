package generation

import (
	"encoding/json"
	"strings"
	"testing"

	"tubertify-backend/internal/models"
)

func validQuestionSet() []models.McqQuestion {
	questions := make([]models.McqQuestion, 20)
	for i := range questions {
		questions[i] = models.McqQuestion{
			Question:      "What does the lecture say about topic " + string(rune('A'+i%26)) + "?",
			Options:       []string{"A) One", "B) Two", "C) Three", "D) Four"},
			CorrectAnswer: "C",
			Explanation:   "The transcript states it directly.",
			Difficulty:    "easy",
		}
	}
	return questions
}

func TestParseMCQQuestions_WrapperObject(t *testing.T) {
	payload, _ := json.Marshal(map[string]interface{}{"questions": validQuestionSet()})

	questions, ok := parseMCQQuestions(string(payload))
	if !ok {
		t.Fatal("wrapper object payload should parse")
	}
	if len(questions) != 20 {
		t.Errorf("expected 20 questions, got %d", len(questions))
	}
}

func TestParseMCQQuestions_BareArray(t *testing.T) {
	payload, _ := json.Marshal(validQuestionSet())

	if _, ok := parseMCQQuestions(string(payload)); !ok {
		t.Error("bare array payload should parse")
	}
}

func TestParseMCQQuestions_FencedWithProse(t *testing.T) {
	payload, _ := json.Marshal(validQuestionSet())
	raw := "Here is your test:\n" + string(payload) + "\nGood luck!"

	if _, ok := parseMCQQuestions(raw); !ok {
		t.Error("array embedded in prose should parse via outermost-array extraction")
	}

	fenced := "```json\n" + string(payload) + "\n```"
	if _, ok := parseMCQQuestions(fenced); !ok {
		t.Error("fenced payload should parse")
	}
}

func TestParseMCQQuestions_RejectsBadShapes(t *testing.T) {
	short := validQuestionSet()[:19]
	shortPayload, _ := json.Marshal(short)

	threeOptions := validQuestionSet()
	threeOptions[5].Options = threeOptions[5].Options[:3]
	threeOptionsPayload, _ := json.Marshal(threeOptions)

	badLabel := validQuestionSet()
	badLabel[0].CorrectAnswer = "E"
	badLabelPayload, _ := json.Marshal(badLabel)

	emptyQuestion := validQuestionSet()
	emptyQuestion[12].Question = "   "
	emptyQuestionPayload, _ := json.Marshal(emptyQuestion)

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "I'm sorry, I can't do that."},
		{"nineteen questions", string(shortPayload)},
		{"three options", string(threeOptionsPayload)},
		{"correct answer E", string(badLabelPayload)},
		{"blank question text", string(emptyQuestionPayload)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := parseMCQQuestions(tc.raw); ok {
				t.Error("expected parse rejection")
			}
		})
	}
}

func TestParseMCQQuestions_NormalizesUnknownDifficulty(t *testing.T) {
	questions := validQuestionSet()
	questions[7].Difficulty = "brutal"
	payload, _ := json.Marshal(questions)

	parsed, ok := parseMCQQuestions(string(payload))
	if !ok {
		t.Fatal("unknown difficulty should not reject the set")
	}
	if parsed[7].Difficulty != "medium" {
		t.Errorf("expected difficulty normalized to medium, got %q", parsed[7].Difficulty)
	}
}

func TestFallbackQuestions_Shape(t *testing.T) {
	questions := FallbackQuestions()

	if len(questions) != 20 {
		t.Fatalf("expected 20 fallback questions, got %d", len(questions))
	}

	counts := map[string]int{}
	for i, q := range questions {
		if q.CorrectAnswer != "A" {
			t.Errorf("question %d: fallback answers are always A, got %q", i, q.CorrectAnswer)
		}
		if len(q.Options) != 4 {
			t.Errorf("question %d: expected 4 options, got %d", i, len(q.Options))
		}
		if !strings.Contains(q.Question, "?") {
			t.Errorf("question %d: expected interrogative text, got %q", i, q.Question)
		}
		counts[q.Difficulty]++
	}

	if counts["easy"] != 6 || counts["medium"] != 8 || counts["hard"] != 6 {
		t.Errorf("expected 6 easy / 8 medium / 6 hard, got %v", counts)
	}
}

func TestFallbackQuestions_Deterministic(t *testing.T) {
	a := FallbackQuestions()
	b := FallbackQuestions()

	for i := range a {
		if a[i].Question != b[i].Question || a[i].Difficulty != b[i].Difficulty {
			t.Fatalf("question %d differs between calls", i)
		}
	}
}
