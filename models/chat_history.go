package models

import (
	"time"

	"github.com/google/uuid"
)

type ChatHistory struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text" json:"answer"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ChatHistory) TableName() string {
	return "chat_history"
}
