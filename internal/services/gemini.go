package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"tubertify-backend/internal/generation"
)

const geminiModelName = "gemini-3-flash-preview"

// GeminiService implements generation.Generator over three model
// handles, one per API key, splitting quota between summaries, study
// material, and chat the way the product separates usage.
type GeminiService struct {
	clients      []*genai.Client
	summaryModel *genai.GenerativeModel
	studyModel   *genai.GenerativeModel
	chatModel    *genai.GenerativeModel
	rateChan     chan struct{} // token bucket
	timeout      time.Duration
}

func NewGeminiService(summaryKey, studyKey, chatKey string, concurrentReqs, timeoutSecs int) (*GeminiService, error) {
	ctx := context.Background()

	s := &GeminiService{
		timeout: time.Duration(timeoutSecs) * time.Second,
	}

	newModel := func(apiKey string) (*genai.GenerativeModel, error) {
		client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.clients = append(s.clients, client)

		model := client.GenerativeModel(geminiModelName)
		model.SetTemperature(0.3)
		model.SetTopP(0.95)
		return model, nil
	}

	var err error
	if s.summaryModel, err = newModel(summaryKey); err != nil {
		s.Close()
		return nil, err
	}
	if s.studyModel, err = newModel(studyKey); err != nil {
		s.Close()
		return nil, err
	}
	if s.chatModel, err = newModel(chatKey); err != nil {
		s.Close()
		return nil, err
	}

	// Token bucket bounding concurrent upstream calls
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}
	s.rateChan = rateChan

	return s, nil
}

func (s *GeminiService) Close() {
	for _, c := range s.clients {
		c.Close()
	}
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

func (s *GeminiService) modelFor(kind generation.Kind) *genai.GenerativeModel {
	switch kind {
	case generation.KindStudyNotes, generation.KindMCQTest:
		return s.studyModel
	case generation.KindChatMessage:
		return s.chatModel
	default:
		return s.summaryModel
	}
}

// Generate runs one prompt through the model for the kind. Every call
// is deadline-bound so a hung upstream cannot stall a request.
func (s *GeminiService) Generate(ctx context.Context, kind generation.Kind, prompt string) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.modelFor(kind).GenerateContent(callCtx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", fmt.Errorf("Gemini returned empty response")
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

var _ generation.Generator = (*GeminiService)(nil)
