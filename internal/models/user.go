package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
}

// BeforeCreate assigns a fresh UUID when none was provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SearchRecord logs one recommendation request made by a user.
type SearchRecord struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UserID         uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Ingredients    string    `gorm:"type:text;not null" json:"ingredients"`
	MaxTime        *float64  `json:"max_time,omitempty"`
	TargetCalories *float64  `json:"target_calories,omitempty"`
	TargetProtein  *float64  `json:"target_protein,omitempty"`
}
