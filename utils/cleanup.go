package utils

import (
	"time"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"

	"github.com/aivora/aivora-backend/logger"
	"github.com/aivora/aivora-backend/models"
)

const sessionCleanupEveryHours = 6

// CleanupExpiredSessions deletes refresh sessions past their expiry.
func CleanupExpiredSessions(db *gorm.DB, log *logger.Logger) int64 {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		log.Error("cleanup expired sessions failed", "error", result.Error)
		return 0
	}
	if result.RowsAffected > 0 {
		log.Info("expired sessions removed", "count", result.RowsAffected)
	}
	return result.RowsAffected
}

// StartCleanupJob runs the cleanup now and then every six hours. The caller
// stops the returned scheduler on shutdown.
func StartCleanupJob(db *gorm.DB, log *logger.Logger) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Every(sessionCleanupEveryHours).Hours().Do(CleanupExpiredSessions, db, log); err != nil {
		return nil, err
	}
	s.StartAsync()
	log.Info("session cleanup job started", "every_hours", sessionCleanupEveryHours)
	return s, nil
}
