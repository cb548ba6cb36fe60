package models

import (
	"time"

	"github.com/google/uuid"
)

type SourceType string

const (
	SourceText  SourceType = "text"
	SourceImage SourceType = "image"
	SourcePDF   SourceType = "pdf"
	SourceDOCX  SourceType = "docx"
	SourceTXT   SourceType = "txt"
)

// Valid reports whether s is an upload source the notes endpoint accepts.
func (s SourceType) Valid() bool {
	switch s {
	case SourceText, SourceImage, SourcePDF, SourceDOCX, SourceTXT:
		return true
	}
	return false
}

type Note struct {
	Base
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	SourceType SourceType `gorm:"type:varchar(20);not null;default:'text'" json:"source_type"`
	Content    string     `gorm:"type:text" json:"content"`
	Summary    string     `gorm:"type:text" json:"summary"`
	FileURL    string     `gorm:"type:text" json:"file_url,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Quizzes []Quiz `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE" json:"-"`
}

// NoteSummary is the lightweight listing projection.
type NoteSummary struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}
