package models

import "time"

// UserGamification tracks level, XP and login streak for one user.
// XP is kept "settled": after every update it is strictly below the
// threshold for the current level, except at MaxLevel where it keeps
// accumulating (soft cap).
type UserGamification struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"uniqueIndex;not null" json:"user_id"`
	Level      int       `gorm:"not null;default:1" json:"level"`
	XP         int       `gorm:"not null;default:0" json:"xp"`
	Title      string    `gorm:"not null;default:'Novice Trader'" json:"title"`
	StreakDays int       `gorm:"not null;default:0" json:"streak_days"`
	LastLogin  time.Time `json:"last_login"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
