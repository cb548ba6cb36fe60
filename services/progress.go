package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/aivora/aivora-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrCreateProgress returns the user's counters, inserting the zero row on
// first access.
func GetOrCreateProgress(db *gorm.DB, userID uuid.UUID) (*models.Progress, error) {
	var p models.Progress
	err := db.Where("user_id = ?", userID).Attrs(models.Progress{UserID: userID}).FirstOrCreate(&p).Error
	if err == nil {
		return &p, nil
	}
	// a concurrent first access may have won the unique index
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		if err := db.Where("user_id = ?", userID).First(&p).Error; err == nil {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("load progress: %w", err)
}

func bumpCounter(tx *gorm.DB, userID uuid.UUID, column string) error {
	switch column {
	case models.CounterNotesCreated, models.CounterQuizzesTaken:
	default:
		return fmt.Errorf("unknown progress counter %q", column)
	}
	if _, err := GetOrCreateProgress(tx, userID); err != nil {
		return err
	}
	return tx.Model(&models.Progress{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			column:       gorm.Expr(column+" + ?", 1),
			"updated_at": time.Now(),
		}).Error
}
