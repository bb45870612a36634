package models

import (
	"time"

	"gorm.io/gorm"
)

// UserLoginHistory records one row per user per calendar day, carrying the
// running daily-login streak at that point.
type UserLoginHistory struct {
	gorm.Model
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	LoginDate     time.Time `gorm:"index;not null" json:"login_date"`
	CurrentStreak int       `gorm:"default:1" json:"current_streak"`
}
