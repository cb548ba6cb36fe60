package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aivora/aivora-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MinNoteLength = 20

// CreateNote inserts the note and bumps notes_created atomically.
func CreateNote(db *gorm.DB, note *models.Note) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(note).Error; err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		return bumpCounter(tx, note.UserID, models.CounterNotesCreated)
	})
}

// FindOwnedNote treats a malformed id the same as a missing row.
func FindOwnedNote(db *gorm.DB, userID uuid.UUID, rawID string) (*models.Note, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: note", ErrNotFound)
	}
	var note models.Note
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: note", ErrNotFound)
		}
		return nil, err
	}
	return &note, nil
}

func ListNotes(db *gorm.DB, userID uuid.UUID) ([]models.Note, error) {
	notes := []models.Note{}
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notes).Error
	return notes, err
}

func ListNoteSummaries(db *gorm.DB, userID uuid.UUID) ([]models.NoteSummary, error) {
	out := []models.NoteSummary{}
	err := db.Model(&models.Note{}).
		Select("id, title").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(&out).Error
	return out, err
}

// DeleteOwnedNote removes the note; quizzes go with it through the foreign key.
// The deleted row is returned so callers can clean up its stored file.
func DeleteOwnedNote(db *gorm.DB, userID uuid.UUID, rawID string) (*models.Note, error) {
	var deleted *models.Note
	err := db.Transaction(func(tx *gorm.DB) error {
		note, err := FindOwnedNote(tx, userID, rawID)
		if err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", note.ID, userID).Delete(&models.Note{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: note", ErrNotFound)
		}
		deleted = note
		return nil
	})
	return deleted, err
}

func SaveNoteSummary(db *gorm.DB, note *models.Note, summary string) error {
	note.Summary = summary
	return db.Model(note).Update("summary", summary).Error
}

// DeriveTitle builds a title from the first line of content when none was given.
func DeriveTitle(content string) string {
	line := strings.TrimSpace(strings.SplitN(strings.TrimSpace(content), "\n", 2)[0])
	if r := []rune(line); len(r) > 60 {
		line = string(r[:60]) + "..."
	}
	if line == "" {
		return "Untitled note"
	}
	return line
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
