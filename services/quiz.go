package services

import (
	"encoding/json"
	"strings"

	"github.com/aivora/aivora-backend/models"
)

const QuizQuestionCount = 5

type QuizOutcome int

const (
	QuizParsed QuizOutcome = iota
	QuizFallback
)

// QuizResult is either the questions the model produced or the fixed
// placeholder used when its reply could not be understood.
type QuizResult struct {
	Kind      QuizOutcome
	Questions []models.QuizQuestion
}

func (r QuizResult) IsFallback() bool {
	return r.Kind == QuizFallback
}

func FallbackQuiz() QuizResult {
	return QuizResult{
		Kind: QuizFallback,
		Questions: []models.QuizQuestion{{
			ID:       1,
			Question: "Based on the notes, what is the main topic?",
			Options:  []string{"Topic 1", "Topic 2", "Topic 3", "Topic 4"},
			Correct:  "Topic 1",
		}},
	}
}

type rawQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  string   `json:"correct"`
}

// ParseQuiz never fails: a reply that does not contain enough well-formed
// questions yields FallbackQuiz.
func ParseQuiz(raw string) QuizResult {
	var items []rawQuestion
	if err := json.Unmarshal([]byte(stripFences(raw)), &items); err != nil {
		return FallbackQuiz()
	}

	questions := make([]models.QuizQuestion, 0, QuizQuestionCount)
	for _, item := range items {
		q, ok := normalizeQuestion(item)
		if !ok {
			continue
		}
		q.ID = len(questions) + 1
		questions = append(questions, q)
		if len(questions) == QuizQuestionCount {
			break
		}
	}
	if len(questions) < QuizQuestionCount {
		return FallbackQuiz()
	}
	return QuizResult{Kind: QuizParsed, Questions: questions}
}

func normalizeQuestion(item rawQuestion) (models.QuizQuestion, bool) {
	question := strings.TrimSpace(item.Question)
	if question == "" || len(item.Options) != 4 {
		return models.QuizQuestion{}, false
	}
	options := make([]string, 4)
	for i, o := range item.Options {
		options[i] = strings.TrimSpace(o)
		if options[i] == "" {
			return models.QuizQuestion{}, false
		}
	}

	correct := strings.TrimSpace(item.Correct)
	for _, o := range options {
		if o == correct {
			return models.QuizQuestion{Question: question, Options: options, Correct: correct}, true
		}
	}
	// models sometimes answer with the option letter
	if len(correct) == 1 {
		if idx := strings.IndexByte("ABCD", correct[0]&^0x20); idx >= 0 {
			return models.QuizQuestion{Question: question, Options: options, Correct: options[idx]}, true
		}
	}
	return models.QuizQuestion{}, false
}

// stripFences drops markdown code fences and any prose around the JSON array.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start < 0 || end < start {
		return strings.TrimSpace(s)
	}
	return s[start : end+1]
}
