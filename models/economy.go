package models

import "github.com/shopspring/decimal"

// Economy tuning. FLOG is play money; the exchange rates exist only so the
// webapp can render an approximate fiat value next to balances. Money is
// decimal throughout so fee splits never drift.
var (
	StartingBalance = decimal.NewFromInt(1000)
	DailyLoginBonus = decimal.NewFromInt(50)
	ListingReward   = decimal.NewFromInt(10)

	MarketplaceFeePercentage = decimal.NewFromFloat(0.05) // 5%

	FlogToGBP = decimal.NewFromFloat(0.88)
	FlogToUSD = decimal.NewFromFloat(1.10)
	FlogToEUR = decimal.NewFromFloat(1.02)

	BronzeBoxPrice = decimal.NewFromInt(100)
	SilverBoxPrice = decimal.NewFromInt(250)
	GoldBoxPrice   = decimal.NewFromInt(500)
)

const (
	PurchaseXPReward = 50
	SaleXPReward     = 100

	MaxLevel       = 50
	BaseXPForLevel = 100
	XPStepPerLevel = 50
)
