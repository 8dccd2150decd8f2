package services

import (
	"testing"
	"time"

	"gamification-service/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestXPForNextLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 150},
		{2, 200},
		{10, 600},
		{49, 2550},
		{0, 150}, // clamped to level 1
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, XPForNextLevel(tt.level), "level %d", tt.level)
	}
}

func TestSettleXP(t *testing.T) {
	tests := []struct {
		name      string
		xp        int
		level     int
		wantXP    int
		wantLevel int
		wantUp    bool
	}{
		{"below threshold", 100, 1, 100, 1, false},
		{"exactly at threshold", 150, 1, 0, 2, true},
		{"single level with remainder", 160, 1, 10, 2, true},
		{"multiple levels in one settle", 400, 1, 50, 3, true},
		{"no xp", 0, 5, 0, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xp, level, up := SettleXP(tt.xp, tt.level)
			assert.Equal(t, tt.wantXP, xp)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantUp, up)
		})
	}
}

func TestSettleXPInvariant(t *testing.T) {
	// Settled XP is always below the next threshold unless capped.
	for startXP := 0; startXP < 3000; startXP += 37 {
		xp, level, _ := SettleXP(startXP, 1)
		if level < models.MaxLevel {
			assert.Less(t, xp, XPForNextLevel(level), "start xp %d", startXP)
		}
	}
}

func TestSettleXPSoftCap(t *testing.T) {
	// At the cap the level freezes but excess XP is retained.
	xp, level, up := SettleXP(99999, models.MaxLevel)
	assert.Equal(t, models.MaxLevel, level)
	assert.Equal(t, 99999, xp)
	assert.False(t, up)

	xp, level, up = SettleXP(1000000, 1)
	assert.Equal(t, models.MaxLevel, level)
	assert.True(t, up)
	assert.Positive(t, xp)
}

func TestTitleForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{1, "Novice Trader"},
		{4, "Novice Trader"},
		{5, "Apprentice Trader"},
		{9, "Apprentice Trader"},
		{10, "Experienced Seller"},
		{20, "Skilled Dealer"},
		{30, "Expert Trader"},
		{40, "Master Merchant"},
		{50, "Trading Legend"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleForLevel(tt.level), "level %d", tt.level)
	}
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		current   int
		lastLogin time.Time
		want      int
	}{
		{"next day extends", 3, now.Add(-26 * time.Hour), 4},
		{"exactly 24h extends", 3, now.Add(-24 * time.Hour), 4},
		{"two day gap resets", 7, now.Add(-49 * time.Hour), 1},
		{"same day unchanged", 3, now.Add(-2 * time.Hour), 3},
		{"first consecutive return", 0, now.Add(-30 * time.Hour), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStreak(tt.current, tt.lastLogin, now))
		})
	}
}

func TestMarketplaceFee(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"100", "5"},
		{"0", "0"},
		{"250", "12.5"},
		{"0.1", "0.005"}, // fee arithmetic is exact, no float drift
		{"333.33", "16.6665"},
	}
	for _, tt := range tests {
		amount := decimal.RequireFromString(tt.amount)
		want := decimal.RequireFromString(tt.want)
		assert.True(t, MarketplaceFee(amount).Equal(want), "fee(%s) = %s, want %s", tt.amount, MarketplaceFee(amount), want)
	}
}
