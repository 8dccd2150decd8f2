package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxPurchase          TransactionType = "purchase"
	TxSale              TransactionType = "sale"
	TxQuestReward       TransactionType = "quest_reward"
	TxAchievementReward TransactionType = "achievement_reward"
	TxDailyBonus        TransactionType = "daily_bonus"
	TxMysteryBox        TransactionType = "mystery_box"
	TxStaking           TransactionType = "staking"
	TxUnstaking         TransactionType = "unstaking"
	TxAdReward          TransactionType = "ad_reward"
)

// UserWallet holds one user's FLOG balances. Created lazily on first touch
// with the starting balance, mutated only through WalletService, never
// deleted. Balances are decimals (NUMERIC in the DB) so fee arithmetic is
// exact; FlogBalance must never go negative.
type UserWallet struct {
	ID          string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string          `gorm:"uniqueIndex;not null" json:"user_id"`
	FlogBalance decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"flog_balance"`
	FlogStaked  decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"flog_staked"`
	TotalEarned decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"total_earned"`
	TotalSpent  decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"total_spent"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// Transaction is the append-only audit record paired with every balance
// change. Positive amounts credit the wallet, negative amounts debit it.
// Rows are never updated or deleted.
type Transaction struct {
	ID           string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserWalletID string          `gorm:"type:uuid;index;not null" json:"user_wallet_id"`
	BuyerID      string          `gorm:"index" json:"buyer_id,omitempty"`
	SellerID     string          `json:"seller_id,omitempty"`
	ItemID       *string         `gorm:"type:uuid" json:"item_id,omitempty"`
	Amount       decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"amount"`
	Fee          decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"fee"`
	Type         TransactionType `gorm:"type:varchar(32);not null;index" json:"type"`
	Description  string          `gorm:"type:text" json:"description"`
	CreatedAt    time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Transaction) TableName() string {
	return "wallet_transactions"
}
