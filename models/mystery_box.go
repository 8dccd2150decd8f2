package models

import (
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

type MysteryBoxTier string

const (
	MysteryBoxTierBronze MysteryBoxTier = "bronze"
	MysteryBoxTierSilver MysteryBoxTier = "silver"
	MysteryBoxTierGold   MysteryBoxTier = "gold"
)

// MysteryBox is one static per-tier config entry.
type MysteryBox struct {
	ID        string          `gorm:"primaryKey;type:uuid" json:"id"`
	BoxID     string          `gorm:"uniqueIndex;not null" json:"box_id"`
	Name      string          `gorm:"not null" json:"name"`
	Tier      MysteryBoxTier  `gorm:"type:varchar(16);not null" json:"tier"`
	Price     decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"price"`
	MinItems  int             `gorm:"not null" json:"min_items"`
	MaxItems  int             `gorm:"not null" json:"max_items"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// MysteryBoxOpening is the immutable record of one purchase: what was
// spent, what came out, and the full serialized reward list.
type MysteryBoxOpening struct {
	ID            string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string          `gorm:"not null;index" json:"user_id"`
	BoxID         string          `gorm:"not null;index" json:"box_id"`
	FlogSpent     decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"flog_spent"`
	FlogReceived  decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"flog_received"`
	ItemsReceived int             `gorm:"not null" json:"items_received"`
	RewardsJSON   string          `gorm:"type:jsonb" json:"rewards_json"`
	OpenedAt      time.Time       `gorm:"autoCreateTime;index" json:"opened_at"`
}

// Reward payload types inside an opening.
const (
	RewardTypeFlog = "FLOG"
	RewardTypeXP   = "XP"
	RewardTypeItem = "Item"
)

// MysteryBoxReward is one generated reward, serialized into
// MysteryBoxOpening.RewardsJSON and returned to the caller.
type MysteryBoxReward struct {
	Type   string  `json:"type"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Rarity string  `json:"rarity"`
}

// MysteryBoxCatalog: the three tiers, strictly increasing in price and
// generosity.
var MysteryBoxCatalog = []MysteryBox{
	{
		BoxID:    slug.Make("Bronze Mystery Box"),
		Name:     "Bronze Mystery Box",
		Tier:     MysteryBoxTierBronze,
		Price:    BronzeBoxPrice,
		MinItems: 1,
		MaxItems: 2,
	},
	{
		BoxID:    slug.Make("Silver Mystery Box"),
		Name:     "Silver Mystery Box",
		Tier:     MysteryBoxTierSilver,
		Price:    SilverBoxPrice,
		MinItems: 2,
		MaxItems: 3,
	},
	{
		BoxID:    slug.Make("Gold Mystery Box"),
		Name:     "Gold Mystery Box",
		Tier:     MysteryBoxTierGold,
		Price:    GoldBoxPrice,
		MinItems: 3,
		MaxItems: 5,
	},
}
