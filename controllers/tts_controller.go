package controllers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aivora/aivora-backend/services"
	"github.com/aivora/aivora-backend/utils"
)

type TTSRequest struct {
	Text         string  `json:"text"`
	Voice        string  `json:"voice"`
	SpeakingRate float64 `json:"speaking_rate"`
}

// TextToSpeech returns an audio_url when storage is configured and inline
// base64 audio otherwise.
func TextToSpeech(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	svc := getServices(c)
	if svc.Speech == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Speech is not configured"})
		return
	}

	var req TTSRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text required"})
		return
	}
	if len(req.Text) > services.MaxSpeechLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text too long"})
		return
	}

	audio, err := svc.Speech.Synthesize(c.Request.Context(), req.Text, req.Voice, req.SpeakingRate)
	if err != nil {
		getLog(c).Error("speech synthesis failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Speech service error"})
		return
	}
	duration, err := services.MP3Duration(audio)
	if err != nil {
		getLog(c).Warn("mp3 duration unavailable", "error", err)
	}

	resp := gin.H{"success": true, "duration": duration}
	if svc.Storage != nil {
		objectPath := utils.ObjectPath("audio", id.UserID.String(), firstWords(req.Text, 6), uuid.NewString(), ".mp3")
		url, err := svc.Storage.Upload(c.Request.Context(), objectPath, audio, "audio/mpeg")
		if err == nil {
			resp["audio_url"] = url
			c.JSON(http.StatusOK, resp)
			return
		}
		getLog(c).Warn("store speech audio failed", "error", err)
	}
	resp["audio_content"] = base64.StdEncoding.EncodeToString(audio)
	c.JSON(http.StatusOK, resp)
}

func firstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
