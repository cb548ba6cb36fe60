package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aivora/aivora-backend/services"
	"github.com/aivora/aivora-backend/ws"
)

type GenerateQuizInput struct {
	NoteID    string `json:"noteId"`
	NoteIDAlt string `json:"note_id"`
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GenerateQuiz asks the model for questions on an owned note. An unusable
// reply still produces a quiz, marked as fallback.
func GenerateQuiz(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var input GenerateQuizInput
	_ = c.ShouldBindJSON(&input)
	noteID := strings.TrimSpace(input.NoteID)
	if noteID == "" {
		noteID = strings.TrimSpace(input.NoteIDAlt)
	}
	if noteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "noteId required"})
		return
	}

	db := getDB(c)
	note, err := services.FindOwnedNote(db, id.UserID, noteID)
	if err != nil {
		respondError(c, err, "Note not found")
		return
	}

	svc := getServices(c)
	raw, err := svc.AI.GenerateText(c.Request.Context(), services.QuizPrompt(note.Content))
	if err != nil {
		aiError(c, err)
		return
	}
	result := services.ParseQuiz(raw)
	if result.IsFallback() {
		getLog(c).Warn("quiz reply unusable, storing fallback", "note_id", note.ID)
	}

	quiz, err := services.CreateQuiz(db, id.UserID, &note.ID, result)
	if err != nil {
		respondError(c, err, "")
		return
	}
	ws.Notify(id.UserID.String(), ws.EventQuizGenerated, gin.H{"quiz_id": quiz.ID, "note_id": note.ID})
	notifyProgress(c, id.UserID)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"quiz_id":   quiz.ID,
		"questions": result.Questions,
		"fallback":  result.IsFallback(),
	})
}

func GetQuizzes(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	quizzes, err := services.ListQuizzes(getDB(c), id.UserID)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quizzes": quizzes})
}

func GetQuiz(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	quiz, err := services.FindOwnedQuiz(getDB(c), id.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Quiz not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quiz": quiz})
}

func ExportQuiz(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	quiz, err := services.FindOwnedQuiz(getDB(c), id.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Quiz not found")
		return
	}
	buf, err := services.ExportQuizXLSX(quiz)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="quiz-%s.xlsx"`, quiz.ID))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
