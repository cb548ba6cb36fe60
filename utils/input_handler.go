package utils

import (
	"errors"
	"strings"

	"github.com/aivora/aivora-backend/models"
)

// SourceTypeFromExt maps an uploaded file extension to a note source type.
func SourceTypeFromExt(ext string) (models.SourceType, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return models.SourcePDF, nil
	case ".docx":
		return models.SourceDOCX, nil
	case ".txt", ".md":
		return models.SourceTXT, nil
	case ".png", ".jpg", ".jpeg", ".webp", ".gif", ".heic":
		return models.SourceImage, nil
	default:
		return "", errors.New("unsupported file type")
	}
}
