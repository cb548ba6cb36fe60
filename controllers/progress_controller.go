package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aivora/aivora-backend/services"
	"github.com/aivora/aivora-backend/ws"
)

func GetProgress(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	p, err := services.GetOrCreateProgress(getDB(c), id.UserID)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"notes_created":   p.NotesCreated,
		"quizzes_taken":   p.QuizzesTaken,
		"questions_asked": p.QuestionsAsked,
		"study_streak":    p.StudyStreak,
		"avg_score":       p.AvgScore,
	})
}

// notifyProgress pushes fresh counters to the user's open connections.
func notifyProgress(c *gin.Context, userID uuid.UUID) {
	uid := userID.String()
	if !ws.H.Connected(uid) {
		return
	}
	p, err := services.GetOrCreateProgress(getDB(c), userID)
	if err != nil {
		getLog(c).Warn("load progress for event failed", "user_id", uid, "error", err)
		return
	}
	ws.Notify(uid, ws.EventProgressUpdated, gin.H{
		"notes_created": p.NotesCreated,
		"quizzes_taken": p.QuizzesTaken,
	})
}
