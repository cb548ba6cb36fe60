package services

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/aivora/aivora-backend/models"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateQuiz stores the generated questions and bumps quizzes_taken atomically.
func CreateQuiz(db *gorm.DB, userID uuid.UUID, noteID *uuid.UUID, res QuizResult) (*models.Quiz, error) {
	quiz := &models.Quiz{
		UserID:    userID,
		NoteID:    noteID,
		Questions: datatypes.NewJSONType(res.Questions),
		Fallback:  res.IsFallback(),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quiz).Error; err != nil {
			return fmt.Errorf("create quiz: %w", err)
		}
		return bumpCounter(tx, userID, models.CounterQuizzesTaken)
	})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

func FindOwnedQuiz(db *gorm.DB, userID uuid.UUID, rawID string) (*models.Quiz, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: quiz", ErrNotFound)
	}
	var quiz models.Quiz
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: quiz", ErrNotFound)
		}
		return nil, err
	}
	return &quiz, nil
}

func ListQuizzes(db *gorm.DB, userID uuid.UUID) ([]models.Quiz, error) {
	quizzes := []models.Quiz{}
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&quizzes).Error
	return quizzes, err
}

var quizSheetHeader = []any{"#", "Question", "Option A", "Option B", "Option C", "Option D", "Correct"}

// ExportQuizXLSX writes one row per question to the first sheet.
func ExportQuizXLSX(quiz *models.Quiz) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	if err := f.SetSheetRow(sheet, "A1", &quizSheetHeader); err != nil {
		return nil, err
	}
	for i, q := range quiz.Questions.Data() {
		row := []any{q.ID, q.Question}
		for j := 0; j < 4; j++ {
			opt := ""
			if j < len(q.Options) {
				opt = q.Options[j]
			}
			row = append(row, opt)
		}
		row = append(row, q.Correct)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f.WriteToBuffer()
}
