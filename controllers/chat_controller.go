package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aivora/aivora-backend/models"
	"github.com/aivora/aivora-backend/services"
)

type ChatInput struct {
	Message  string `json:"message"`
	Question string `json:"question"`
}

type CodeHelpInput struct {
	Code     string `json:"code"`
	Question string `json:"question"`
}

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

func Chat(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var input ChatInput
	_ = c.ShouldBindJSON(&input)
	message := strings.TrimSpace(input.Message)
	if message == "" {
		message = strings.TrimSpace(input.Question)
	}
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message required"})
		return
	}

	answer, err := getServices(c).AI.GenerateText(c.Request.Context(), message)
	if err != nil {
		aiError(c, err)
		return
	}

	entry := models.ChatHistory{UserID: id.UserID, Question: message, Answer: answer}
	if err := getDB(c).Create(&entry).Error; err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "question": message, "answer": answer})
}

func GetChatHistory(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	history := []models.ChatHistory{}
	err = getDB(c).Where("user_id = ?", id.UserID).Order("created_at DESC").Limit(limit).Find(&history).Error
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": history})
}

func CodeHelp(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}
	var input CodeHelpInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code required"})
		return
	}

	analysis, err := getServices(c).AI.GenerateText(c.Request.Context(), services.CodeHelpPrompt(input.Code, input.Question))
	if err != nil {
		aiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": analysis})
}
