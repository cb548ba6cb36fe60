package services

import (
	"context"
	"fmt"

	"github.com/aivora/aivora-backend/models"
)

// InputSource is the raw material of a note before it becomes plain text.
type InputSource struct {
	Type     models.SourceType
	Text     string // typed text
	Data     []byte // file or image bytes
	MimeType string
}

// NormalizeInput turns any supported source into note content. Images go
// through the vision model; documents are extracted locally and cleaned.
func NormalizeInput(ctx context.Context, ai Generator, in InputSource) (string, error) {
	switch in.Type {
	case models.SourceText:
		return in.Text, nil
	case models.SourceTXT:
		return ExtractTextFromTXT(in.Data)
	case models.SourcePDF:
		text, err := ExtractTextFromPDF(in.Data)
		if err != nil {
			return "", err
		}
		return PreCleanText(text), nil
	case models.SourceDOCX:
		text, err := ExtractTextFromDOCX(in.Data)
		if err != nil {
			return "", err
		}
		return PreCleanText(text), nil
	case models.SourceImage:
		mime := in.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		text, err := ai.GenerateFromImage(ctx, OCRPrompt, in.Data, mime)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: unsupported source type %q", ErrUnprocessable, in.Type)
	}
}
