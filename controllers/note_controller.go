package controllers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aivora/aivora-backend/models"
	"github.com/aivora/aivora-backend/services"
	"github.com/aivora/aivora-backend/utils"
	"github.com/aivora/aivora-backend/ws"
)

const maxUploadBytes = 20 << 20

type UploadNoteInput struct {
	Title      string `json:"title" form:"title"`
	SourceType string `json:"source_type" form:"source_type"`
	Text       string `json:"text" form:"text"`
	Image      string `json:"image" form:"image"`
}

type OCRInput struct {
	Image    string `json:"image"`
	FileName string `json:"fileName"`
}

type SummarizeInput struct {
	Text string `json:"text"`
}

// clientError messages are safe to return in a 400 body.
type clientError string

func (e clientError) Error() string { return string(e) }

// payload is the raw material of an upload before normalization.
type payload struct {
	data     []byte
	mimeType string
	ext      string
}

// UploadNote accepts JSON, urlencoded or multipart bodies.
func UploadNote(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var input UploadNoteInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sourceType := models.SourceType(strings.ToLower(strings.TrimSpace(input.SourceType)))
	if sourceType == "" {
		sourceType = models.SourceText
	}
	if !sourceType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported source_type"})
		return
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title required"})
		return
	}

	svc := getServices(c)
	in := services.InputSource{Type: sourceType}
	var file *payload

	switch sourceType {
	case models.SourceText:
		in.Text = strings.TrimSpace(input.Text)
	case models.SourceImage:
		p, err := imagePayload(c, input.Image)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		file = p
		in.Data, in.MimeType = p.data, p.mimeType
	default:
		p, err := filePayload(c, sourceType)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		file = p
		in.Data, in.MimeType = p.data, p.mimeType
	}

	content, err := services.NormalizeInput(c.Request.Context(), svc.AI, in)
	if err != nil {
		if errors.Is(err, services.ErrUpstream) {
			aiError(c, err)
			return
		}
		getLog(c).Warn("note extraction failed", "source_type", sourceType, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not read text from file"})
		return
	}
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) < services.MinNoteLength {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("Note text must be at least %d characters", services.MinNoteLength)})
		return
	}

	note := models.Note{
		Base:       models.Base{ID: uuid.New()},
		UserID:     id.UserID,
		Title:      title,
		SourceType: sourceType,
		Content:    content,
	}
	if file != nil && svc.Storage != nil {
		objectPath := utils.ObjectPath("notes", id.UserID.String(), title, note.ID.String(), file.ext)
		url, err := svc.Storage.Upload(c.Request.Context(), objectPath, file.data, file.mimeType)
		if err != nil {
			getLog(c).Warn("store original file failed", "note_id", note.ID, "error", err)
		} else {
			note.FileURL = url
		}
	}

	if err := services.CreateNote(getDB(c), &note); err != nil {
		respondError(c, err, "")
		return
	}
	ws.Notify(id.UserID.String(), ws.EventNoteCreated, gin.H{"id": note.ID, "title": note.Title})
	notifyProgress(c, id.UserID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "note": note})
}

func imagePayload(c *gin.Context, encoded string) (*payload, error) {
	if strings.TrimSpace(encoded) != "" {
		data, mime, err := decodeImage(encoded)
		if err != nil {
			return nil, err
		}
		return &payload{data: data, mimeType: mime, ext: extForMIME(mime)}, nil
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, clientError("Image required")
	}
	data, err := readFormFile(c, "file")
	if err != nil {
		return nil, err
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, clientError("File is not an image")
	}
	return &payload{data: data, mimeType: mime, ext: strings.ToLower(filepath.Ext(fh.Filename))}, nil
}

func filePayload(c *gin.Context, want models.SourceType) (*payload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, clientError("File required")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	got, err := utils.SourceTypeFromExt(ext)
	if err != nil || got != want {
		return nil, clientError(fmt.Sprintf("File extension %q does not match source_type %s", ext, want))
	}
	data, err := readFormFile(c, "file")
	if err != nil {
		return nil, err
	}
	return &payload{data: data, mimeType: fh.Header.Get("Content-Type"), ext: ext}, nil
}

func readFormFile(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, clientError("File required")
	}
	if fh.Size > maxUploadBytes {
		return nil, clientError("File exceeds 20 MB")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, clientError("Cannot read uploaded file")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil || len(data) > maxUploadBytes {
		return nil, clientError("Cannot read uploaded file")
	}
	return data, nil
}

// decodeImage accepts raw base64 or a data URL.
func decodeImage(encoded string) ([]byte, string, error) {
	mime := ""
	if prefix, rest, found := strings.Cut(encoded, ","); found {
		encoded = rest
		if strings.HasPrefix(prefix, "data:") {
			mime, _, _ = strings.Cut(strings.TrimPrefix(prefix, "data:"), ";")
		}
	}
	encoded = strings.TrimSpace(encoded)
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
	}
	if err != nil || len(data) == 0 {
		return nil, "", clientError("Invalid image data")
	}
	if !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
		if !strings.HasPrefix(mime, "image/") {
			mime = "image/jpeg"
		}
	}
	return data, mime, nil
}

func extForMIME(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// OCRNote reads an image with the vision model and keeps the result as a note.
func OCRNote(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	var input OCRInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Image) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image required"})
		return
	}
	data, mime, err := decodeImage(input.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		fileName = "note.jpg"
	}

	svc := getServices(c)
	text, err := svc.AI.GenerateFromImage(c.Request.Context(), services.OCRPrompt, data, mime)
	if err != nil {
		aiError(c, err)
		return
	}

	note := models.Note{
		Base:       models.Base{ID: uuid.New()},
		UserID:     id.UserID,
		Title:      fileName,
		SourceType: models.SourceImage,
		Content:    text,
	}
	if svc.Storage != nil {
		objectPath := utils.ObjectPath("notes", id.UserID.String(), strings.TrimSuffix(fileName, filepath.Ext(fileName)), note.ID.String(), extForMIME(mime))
		if url, err := svc.Storage.Upload(c.Request.Context(), objectPath, data, mime); err != nil {
			getLog(c).Warn("store ocr image failed", "note_id", note.ID, "error", err)
		} else {
			note.FileURL = url
		}
	}
	if err := services.CreateNote(getDB(c), &note); err != nil {
		respondError(c, err, "")
		return
	}
	ws.Notify(id.UserID.String(), ws.EventNoteCreated, gin.H{"id": note.ID, "title": note.Title})
	notifyProgress(c, id.UserID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"text":    text,
		"summary": text,
		"note_id": note.ID,
	})
}

// Summarize is stateless: nothing is stored.
func Summarize(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}
	var input SummarizeInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text required"})
		return
	}
	summary, err := services.Summarize(c.Request.Context(), getServices(c).AI, input.Text)
	if err != nil {
		aiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"summary":      summary,
		"summary_html": services.RenderMarkdown(summary),
	})
}

func SummarizeNote(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	db := getDB(c)
	note, err := services.FindOwnedNote(db, id.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Note not found")
		return
	}
	summary, err := services.Summarize(c.Request.Context(), getServices(c).AI, note.Content)
	if err != nil {
		aiError(c, err)
		return
	}
	if err := services.SaveNoteSummary(db, note, summary); err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "note": note, "summary_html": services.RenderMarkdown(summary)})
}

func GetNotes(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	notes, err := services.ListNotes(getDB(c), id.UserID)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notes": notes})
}

// GetUserNotes is the lightweight listing used by pickers.
func GetUserNotes(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	notes, err := services.ListNoteSummaries(getDB(c), id.UserID)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notes": notes})
}

func GetNote(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	note, err := services.FindOwnedNote(getDB(c), id.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Note not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "note": note})
}

func DeleteNote(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	note, err := services.DeleteOwnedNote(getDB(c), id.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Note not found")
		return
	}

	svc := getServices(c)
	if note.FileURL != "" && svc.Storage != nil {
		if err := svc.Storage.Delete(c.Request.Context(), note.FileURL); err != nil {
			getLog(c).Warn("remove stored file failed", "note_id", note.ID, "error", err)
		}
	}
	ws.Notify(id.UserID.String(), ws.EventNoteDeleted, gin.H{"id": note.ID})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Note deleted"})
}
