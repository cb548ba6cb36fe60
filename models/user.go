package models

import (
	"time"
)

type User struct {
	Base
	Name      string    `gorm:"size:150;not null;default:'User'" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Owned rows, removed with the user
	Notes       []Note        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Quizzes     []Quiz        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ChatHistory []ChatHistory `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Progress    *Progress     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Sessions    []Session     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Profile is the public projection returned by the auth endpoints.
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
