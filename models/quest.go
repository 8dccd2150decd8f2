package models

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

type QuestType string

const (
	QuestTypeDaily    QuestType = "daily"
	QuestTypeWeekly   QuestType = "weekly"
	QuestTypeSpecial  QuestType = "special"
	QuestTypeTutorial QuestType = "tutorial"
)

// QuestKind identifies which marketplace action advances a quest.
type QuestKind string

const (
	QuestKindLogin    QuestKind = "daily-login"
	QuestKindListing  QuestKind = "list-items"
	QuestKindPurchase QuestKind = "make-purchase"
	QuestKindSocial   QuestKind = "social-actions"
)

// Quest is one catalog entry. Daily quests are scoped to a UTC calendar
// day by construction: QuestID embeds the date, and the unique index on it
// makes same-day regeneration a no-op.
type Quest struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	QuestID     string    `gorm:"uniqueIndex;not null" json:"quest_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Type        QuestType `gorm:"type:varchar(16);not null;index" json:"type"`
	Kind        QuestKind `gorm:"type:varchar(32);not null;index" json:"kind"`
	Target      int       `gorm:"not null" json:"target"`
	FlogReward  int       `gorm:"not null" json:"flog_reward"`
	XPReward    int       `gorm:"not null" json:"xp_reward"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// QuestProgress is one user's progress against one quest. Progress is
// clamped to [0, Target]; Completed means progress reached the target and
// Claimed means the reward was paid out. Unique per (user, quest).
type QuestProgress struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string     `gorm:"not null;index;uniqueIndex:idx_user_quest" json:"user_id"`
	QuestID     string     `gorm:"type:uuid;not null;uniqueIndex:idx_user_quest" json:"quest_id"`
	Quest       Quest      `gorm:"foreignKey:QuestID;references:ID" json:"quest,omitempty"`
	Progress    int        `gorm:"not null;default:0" json:"progress"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	Claimed     bool       `gorm:"not null;default:false" json:"claimed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// DailyQuestTemplate: static config for the fixed daily set.
type DailyQuestTemplate struct {
	Kind        QuestKind
	Name        string
	Description string
	Target      int
	FlogReward  int
	XPReward    int
}

var DailyQuestTemplates = []DailyQuestTemplate{
	{
		Kind:        QuestKindLogin,
		Name:        "Daily Login",
		Description: "Login to claim your daily bonus",
		Target:      1,
		FlogReward:  50,
		XPReward:    10,
	},
	{
		Kind:        QuestKindListing,
		Name:        "Market Maker",
		Description: "List 3 items for sale",
		Target:      3,
		FlogReward:  100,
		XPReward:    50,
	},
	{
		Kind:        QuestKindPurchase,
		Name:        "Smart Shopper",
		Description: "Purchase any item",
		Target:      1,
		FlogReward:  75,
		XPReward:    35,
	},
	{
		Kind:        QuestKindSocial,
		Name:        "Social Butterfly",
		Description: "Like and comment on 5 items",
		Target:      5,
		FlogReward:  50,
		XPReward:    25,
	},
}

// DailyQuestID builds the date-scoped quest id for a kind, e.g.
// "daily-login-2026-09-01". The same (kind, day) pair always maps to the
// same id, which is what keeps daily regeneration idempotent.
func DailyQuestID(kind QuestKind, day time.Time) string {
	return slug.Make(fmt.Sprintf("%s %s", kind, day.UTC().Format("2006-01-02")))
}
