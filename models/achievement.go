package models

import "time"

type AchievementCategory string

const (
	AchievementCategoryTrading    AchievementCategory = "trading"
	AchievementCategorySocial     AchievementCategory = "social"
	AchievementCategoryCollection AchievementCategory = "collection"
	AchievementCategoryMilestone  AchievementCategory = "milestone"
	AchievementCategorySpecial    AchievementCategory = "special"
)

type AchievementRarity string

const (
	AchievementRarityCommon    AchievementRarity = "common"
	AchievementRarityRare      AchievementRarity = "rare"
	AchievementRarityEpic      AchievementRarity = "epic"
	AchievementRarityLegendary AchievementRarity = "legendary"
)

// Achievement is one static catalog entry. The catalog ships with the
// binary and is seeded into the DB at bootstrap so unlock records have a
// stable foreign key.
type Achievement struct {
	ID            string              `gorm:"primaryKey;type:uuid" json:"id"`
	AchievementID string              `gorm:"uniqueIndex;not null" json:"achievement_id"`
	Name          string              `gorm:"not null" json:"name"`
	Description   string              `gorm:"type:text" json:"description"`
	Icon          string              `gorm:"size:10" json:"icon"`
	XPReward      int                 `gorm:"not null" json:"xp_reward"`
	FlogReward    int                 `gorm:"not null" json:"flog_reward"`
	Category      AchievementCategory `gorm:"type:varchar(16);not null" json:"category"`
	Rarity        AchievementRarity   `gorm:"type:varchar(16);not null" json:"rarity"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

// UserAchievement: one unlock record per (user, achievement). Its
// existence alone proves "already unlocked"; the reward is paid exactly
// once, when the row is created.
type UserAchievement struct {
	ID            string      `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string      `gorm:"not null;index;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID string      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID;references:AchievementID" json:"achievement,omitempty"`
	UnlockedAt    time.Time   `gorm:"autoCreateTime" json:"unlocked_at"`
}

// AchievementCatalog is the full static catalog.
var AchievementCatalog = []Achievement{
	// Trading
	{
		AchievementID: "first_sale",
		Name:          "First Sale!",
		Description:   "Complete your first sale",
		Icon:          "🎉",
		XPReward:      100,
		FlogReward:    200,
		Category:      AchievementCategoryTrading,
		Rarity:        AchievementRarityCommon,
	},
	{
		AchievementID: "first_purchase",
		Name:          "First Purchase",
		Description:   "Make your first purchase",
		Icon:          "🛒",
		XPReward:      50,
		FlogReward:    100,
		Category:      AchievementCategoryTrading,
		Rarity:        AchievementRarityCommon,
	},
	{
		AchievementID: "speed_trader",
		Name:          "Speed Trader",
		Description:   "Complete 5 transactions in one day",
		Icon:          "⚡",
		XPReward:      250,
		FlogReward:    500,
		Category:      AchievementCategoryTrading,
		Rarity:        AchievementRarityRare,
	},
	{
		AchievementID: "trading_tycoon",
		Name:          "Trading Tycoon",
		Description:   "Complete 100 total transactions",
		Icon:          "💼",
		XPReward:      1000,
		FlogReward:    2000,
		Category:      AchievementCategoryTrading,
		Rarity:        AchievementRarityEpic,
	},

	// Collection
	{
		AchievementID: "rare_collector",
		Name:          "Rare Collector",
		Description:   "Own 3 rare or better items",
		Icon:          "💎",
		XPReward:      500,
		FlogReward:    1000,
		Category:      AchievementCategoryCollection,
		Rarity:        AchievementRarityRare,
	},
	{
		AchievementID: "legendary_hunter",
		Name:          "Legendary Hunter",
		Description:   "Obtain a legendary item",
		Icon:          "🏆",
		XPReward:      2000,
		FlogReward:    5000,
		Category:      AchievementCategoryCollection,
		Rarity:        AchievementRarityLegendary,
	},

	// Milestones
	{
		AchievementID: "level_10",
		Name:          "Experienced Trader",
		Description:   "Reach level 10",
		Icon:          "⭐",
		XPReward:      500,
		FlogReward:    1000,
		Category:      AchievementCategoryMilestone,
		Rarity:        AchievementRarityRare,
	},
	{
		AchievementID: "level_25",
		Name:          "Master Merchant",
		Description:   "Reach level 25",
		Icon:          "👑",
		XPReward:      1500,
		FlogReward:    3000,
		Category:      AchievementCategoryMilestone,
		Rarity:        AchievementRarityEpic,
	},
	{
		AchievementID: "level_50",
		Name:          "Trading Legend",
		Description:   "Reach maximum level 50",
		Icon:          "🌟",
		XPReward:      5000,
		FlogReward:    10000,
		Category:      AchievementCategoryMilestone,
		Rarity:        AchievementRarityLegendary,
	},

	// Social
	{
		AchievementID: "social_butterfly",
		Name:          "Social Butterfly",
		Description:   "Like and comment on 50 items",
		Icon:          "🦋",
		XPReward:      300,
		FlogReward:    600,
		Category:      AchievementCategorySocial,
		Rarity:        AchievementRarityRare,
	},

	// Special
	{
		AchievementID: "mystery_master",
		Name:          "Mystery Master",
		Description:   "Open 10 mystery boxes",
		Icon:          "🎁",
		XPReward:      750,
		FlogReward:    1500,
		Category:      AchievementCategorySpecial,
		Rarity:        AchievementRarityEpic,
	},
	{
		AchievementID: "streak_warrior",
		Name:          "Streak Warrior",
		Description:   "Maintain a 7-day login streak",
		Icon:          "🔥",
		XPReward:      500,
		FlogReward:    1000,
		Category:      AchievementCategorySpecial,
		Rarity:        AchievementRarityRare,
	},
}
