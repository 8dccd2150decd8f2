package models

import "time"

type ActivityType string

const (
	ActivityPurchase      ActivityType = "purchase"
	ActivityListing       ActivityType = "listing"
	ActivityAchievement   ActivityType = "achievement"
	ActivityLevelUp       ActivityType = "level_up"
	ActivityQuestComplete ActivityType = "quest_complete"
	ActivityMysteryBox    ActivityType = "mystery_box"
)

// ActivityFeed is one human-readable event for the marketplace feed.
// Rows are written fire-and-forget by the services and pushed out to
// subscribers by the activity publisher worker; Published flips once the
// row has been broadcast.
type ActivityFeed struct {
	ID        string       `gorm:"primaryKey;type:uuid" json:"id"`
	Type      ActivityType `gorm:"type:varchar(32);not null;index" json:"type"`
	UserID    string       `gorm:"index" json:"user_id"`
	Username  string       `json:"username"`
	Message   string       `gorm:"type:text;not null" json:"message"`
	Metadata  string       `gorm:"type:jsonb" json:"metadata,omitempty"`
	Published bool         `gorm:"not null;default:false;index" json:"published"`
	CreatedAt time.Time    `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ActivityFeed) TableName() string {
	return "activity_feed"
}
