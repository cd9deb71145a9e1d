package generation

import "strings"

const videoSummaryPrompt = `You are an expert educational content analyzer. Create a comprehensive summary of this YouTube video transcript.

REQUIREMENTS:
- Extract key learning points and concepts
- Organize information hierarchically
- Include practical examples mentioned
- Highlight important definitions or formulas
- Keep summary between 200-400 words
- Use clear, educational language
- Focus on actionable insights

TRANSCRIPT: {transcript}

Provide a well-structured summary that helps learners understand the core concepts.`

const courseSummaryPrompt = `You are an educational course designer. Create a comprehensive course summary from the provided video summaries.

REQUIREMENTS:
- Synthesize all video content into cohesive learning path
- Identify main learning objectives
- Highlight prerequisite knowledge
- Suggest practical applications
- Include difficulty assessment
- Keep summary between 300-500 words
- Structure as: Overview, Key Topics, Learning Outcomes, Prerequisites

VIDEO SUMMARIES: {videoSummaries}

Create a course summary that gives learners clear expectations.`

const studyNotesPrompt = `You are a study guide expert. Transform this course content into comprehensive study notes.

REQUIREMENTS:
- Create structured, scannable notes
- Use bullet points and numbered lists
- Include key terms and definitions
- Add memory aids and mnemonics where helpful
- Organize by topics/modules
- Include quick review sections
- Format for easy revision
- Keep between 400-600 words

COURSE CONTENT: {courseContent}

Generate study notes optimized for learning and retention.`

const mcqPrompt = `You are an expert test creator. Generate 20 multiple-choice questions from this course content.

REQUIREMENTS:
- Mix of difficulty levels (30% easy, 50% medium, 20% hard)
- Cover all major topics proportionally
- 4 options per question (A, B, C, D)
- Only one correct answer per question
- Avoid trick questions or ambiguous wording
- Include application-based questions, not just recall
- Provide brief explanations for correct answers

COURSE CONTENT: {courseContent}

Return as JSON array with format:
{
  "questions": [
    {
      "question": "Question text",
      "options": ["A) Option 1", "B) Option 2", "C) Option 3", "D) Option 4"],
      "correctAnswer": "A",
      "explanation": "Brief explanation",
      "difficulty": "easy|medium|hard"
    }
  ]
}`

const chatPrompt = `You are TubiBot, an AI learning assistant for Tubertify. You help learners with their studies in a friendly, encouraging way.

CONTEXT:
- User's learning history: {learningHistory}
- Current course: {currentCourse}
- User question: {userQuestion}

GUIDELINES:
- Be encouraging and supportive
- Provide clear, actionable advice
- Reference their learning progress when relevant
- Suggest specific study strategies
- Keep responses concise but helpful
- If question is off-topic, gently redirect to learning
- Use a warm, mentor-like tone

Respond to the user's question while staying focused on their learning journey.`

// ChatVars are the substitution slots the chat template needs beyond the
// kinds that take a single content blob.
type ChatVars struct {
	Question        string
	LearningHistory string
	CurrentCourse   string
}

func buildPrompt(req Request) string {
	switch req.Kind {
	case KindVideoSummary:
		return strings.ReplaceAll(videoSummaryPrompt, "{transcript}", req.Content)
	case KindCourseSummary:
		return strings.ReplaceAll(courseSummaryPrompt, "{videoSummaries}", req.Content)
	case KindStudyNotes:
		return strings.ReplaceAll(studyNotesPrompt, "{courseContent}", req.Content)
	case KindMCQTest:
		return strings.ReplaceAll(mcqPrompt, "{courseContent}", req.Content)
	case KindChatMessage:
		history := "No previous learning history"
		course := "No current course"
		question := req.Content
		if req.Chat != nil {
			if req.Chat.LearningHistory != "" {
				history = req.Chat.LearningHistory
			}
			if req.Chat.CurrentCourse != "" {
				course = req.Chat.CurrentCourse
			}
			if req.Chat.Question != "" {
				question = req.Chat.Question
			}
		}
		p := strings.ReplaceAll(chatPrompt, "{learningHistory}", history)
		p = strings.ReplaceAll(p, "{currentCourse}", course)
		return strings.ReplaceAll(p, "{userQuestion}", question)
	}
	return req.Content
}
