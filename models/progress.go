package models

import (
	"time"

	"github.com/google/uuid"
)

type Progress struct {
	Base
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	NotesCreated   int       `gorm:"not null;default:0" json:"notes_created"`
	QuizzesTaken   int       `gorm:"not null;default:0" json:"quizzes_taken"`
	QuestionsAsked int       `gorm:"not null;default:0" json:"questions_asked"`
	StudyStreak    int       `gorm:"not null;default:0" json:"study_streak"`
	AvgScore       float64   `gorm:"not null;default:0" json:"avg_score"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Progress) TableName() string {
	return "progress"
}

// Counter columns that other operations bump.
const (
	CounterNotesCreated = "notes_created"
	CounterQuizzesTaken = "quizzes_taken"
)
