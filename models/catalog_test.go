package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAchievementCatalog(t *testing.T) {
	assert.Len(t, AchievementCatalog, 12)

	ids := map[string]bool{}
	for _, a := range AchievementCatalog {
		assert.False(t, ids[a.AchievementID], "duplicate id %s", a.AchievementID)
		ids[a.AchievementID] = true

		assert.NotEmpty(t, a.Name)
		assert.NotEmpty(t, a.Icon)
		assert.Positive(t, a.XPReward)
		assert.Positive(t, a.FlogReward)
		assert.NotEmpty(t, a.Category)
		assert.NotEmpty(t, a.Rarity)
	}

	// Entries the rest of the service unlocks by id must exist.
	for _, id := range []string{
		"first_sale", "first_purchase", "trading_tycoon",
		"level_10", "level_25", "level_50",
		"streak_warrior", "mystery_master",
	} {
		assert.True(t, ids[id], "missing %s", id)
	}
}

func TestMysteryBoxCatalog(t *testing.T) {
	require.Len(t, MysteryBoxCatalog, 3)

	byTier := map[MysteryBoxTier]MysteryBox{}
	for _, b := range MysteryBoxCatalog {
		byTier[b.Tier] = b
		assert.NotEmpty(t, b.BoxID)
		assert.NotEmpty(t, b.Name)
		assert.True(t, b.Price.IsPositive())
	}

	bronze, ok := byTier[MysteryBoxTierBronze]
	require.True(t, ok)
	silver, ok := byTier[MysteryBoxTierSilver]
	require.True(t, ok)
	gold, ok := byTier[MysteryBoxTierGold]
	require.True(t, ok)

	assert.Equal(t, "bronze-mystery-box", bronze.BoxID)
	assert.True(t, bronze.Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, silver.Price.Equal(decimal.NewFromInt(250)))
	assert.True(t, gold.Price.Equal(decimal.NewFromInt(500)))
	assert.True(t, bronze.Price.LessThan(silver.Price))
	assert.True(t, silver.Price.LessThan(gold.Price))
}
