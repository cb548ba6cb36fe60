package services

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func quizJSON(n int) string {
	items := make([]map[string]any, n)
	for i := range items {
		items[i] = map[string]any{
			"id":       i + 10,
			"question": fmt.Sprintf("Question %d?", i+1),
			"options":  []string{"A1", "B1", "C1", "D1"},
			"correct":  "B1",
		}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func TestParseQuizValid(t *testing.T) {
	res := ParseQuiz(quizJSON(5))
	require.Equal(t, QuizParsed, res.Kind)
	require.Len(t, res.Questions, 5)
	for i, q := range res.Questions {
		assert.Equal(t, i+1, q.ID)
		assert.Len(t, q.Options, 4)
		assert.Contains(t, q.Options, q.Correct)
	}
}

func TestParseQuizStripsFences(t *testing.T) {
	res := ParseQuiz("```json\n" + quizJSON(5) + "\n```")
	assert.False(t, res.IsFallback())

	res = ParseQuiz("Here is your quiz:\n" + quizJSON(6) + "\nGood luck!")
	assert.False(t, res.IsFallback())
	assert.Len(t, res.Questions, 5)
}

func TestParseQuizFallback(t *testing.T) {
	cases := map[string]string{
		"not json":      "I cannot help with that.",
		"too few":       quizJSON(3),
		"empty array":   "[]",
		"object":        `{"question":"x"}`,
		"wrong correct": `[{"question":"q","options":["a","b","c","d"],"correct":"e"}]`,
		"three options": `[{"question":"q","options":["a","b","c"],"correct":"a"}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			res := ParseQuiz(raw)
			require.True(t, res.IsFallback())
			require.Len(t, res.Questions, 1)
			assert.Equal(t, "Based on the notes, what is the main topic?", res.Questions[0].Question)
			assert.Equal(t, "Topic 1", res.Questions[0].Correct)
		})
	}
}

func TestParseQuizLetterAnswer(t *testing.T) {
	raw := `[
		{"question":"q1","options":["a","b","c","d"],"correct":"C"},
		{"question":"q2","options":["a","b","c","d"],"correct":"a"},
		{"question":"q3","options":["a","b","c","d"],"correct":"b"},
		{"question":"q4","options":["a","b","c","d"],"correct":"d"},
		{"question":"q5","options":["a","b","c","d"],"correct":"c"}
	]`
	res := ParseQuiz(raw)
	require.False(t, res.IsFallback())
	assert.Equal(t, "c", res.Questions[0].Correct)
}

func TestParseQuizSkipsMalformedItems(t *testing.T) {
	raw := `[{"question":"","options":["a","b","c","d"],"correct":"a"},` + quizJSON(5)[1:]
	res := ParseQuiz(raw)
	require.False(t, res.IsFallback())
	assert.Equal(t, "Question 1?", res.Questions[0].Question)
	assert.Equal(t, 1, res.Questions[0].ID)
}

func TestParseQuizProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.OneOf(
			rapid.String(),
			rapid.Custom(func(t *rapid.T) string { return quizJSON(rapid.IntRange(0, 8).Draw(t, "n")) }),
		).Draw(t, "raw")

		res := ParseQuiz(raw)
		if res.IsFallback() {
			if len(res.Questions) != 1 {
				t.Fatalf("fallback must carry one question, got %d", len(res.Questions))
			}
			return
		}
		if len(res.Questions) != QuizQuestionCount {
			t.Fatalf("parsed quiz has %d questions", len(res.Questions))
		}
		for i, q := range res.Questions {
			if q.ID != i+1 || len(q.Options) != 4 {
				t.Fatalf("bad question %+v", q)
			}
			found := false
			for _, o := range q.Options {
				found = found || o == q.Correct
			}
			if !found {
				t.Fatalf("correct answer %q not among options", q.Correct)
			}
		}
	})
}
