package services

import (
	"context"
	"fmt"
	"strings"
)

const OCRPrompt = "Extract and summarize all the text and key points from this image. Format it clearly:"

const DefaultCodeQuestion = "Help with this code"

func SummaryPrompt(text string) string {
	return "Provide a concise summary of the following:\n\n" + text
}

func CodeHelpPrompt(code, question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		question = DefaultCodeQuestion
	}
	return fmt.Sprintf("%s\n\nCode:\n```\n%s\n```", question, code)
}

func QuizPrompt(content string) string {
	return fmt.Sprintf(`Create %d multiple choice questions based on this text.
Format as JSON array with this structure:
[
    {
        "id": 1,
        "question": "Question text?",
        "options": ["Option A", "Option B", "Option C", "Option D"],
        "correct": "Option A"
    }
]

Text:
%s

Return ONLY the JSON array, no other text.`, QuizQuestionCount, content)
}

// Summarize asks the model for a concise summary of text.
func Summarize(ctx context.Context, ai Generator, text string) (string, error) {
	return ai.GenerateText(ctx, SummaryPrompt(text))
}
