package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuizQuestion is one multiple-choice item as produced by the model.
type QuizQuestion struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  string   `json:"correct"`
}

type Quiz struct {
	Base
	UserID    uuid.UUID                          `gorm:"type:uuid;not null;index" json:"user_id"`
	NoteID    *uuid.UUID                         `gorm:"type:uuid;index" json:"note_id"`
	Questions datatypes.JSONType[[]QuizQuestion] `json:"questions"`
	Fallback  bool                               `gorm:"not null;default:false" json:"fallback"`
	CreatedAt time.Time                          `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
