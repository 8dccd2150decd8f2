package services

import (
	"math/rand"
	"testing"

	"gamification-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLootTableFor(t *testing.T) {
	bronze, ok := LootTableFor(models.MysteryBoxTierBronze)
	require.True(t, ok)
	silver, ok := LootTableFor(models.MysteryBoxTierSilver)
	require.True(t, ok)
	gold, ok := LootTableFor(models.MysteryBoxTierGold)
	require.True(t, ok)

	_, ok = LootTableFor("platinum")
	assert.False(t, ok)

	// Higher tiers are strictly more generous.
	assert.Greater(t, silver.FlogMin, bronze.FlogMin)
	assert.Greater(t, gold.FlogMin, silver.FlogMin)
	assert.Greater(t, silver.FlogMax, bronze.FlogMax)
	assert.Greater(t, gold.FlogMax, silver.FlogMax)
	assert.GreaterOrEqual(t, silver.MinItems, bronze.MinItems)
	assert.GreaterOrEqual(t, gold.MinItems, silver.MinItems)
}

func TestRollRarityReturnsValidName(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	valid := map[string]bool{"Common": true, "Uncommon": true, "Rare": true, "Epic": true, "Legendary": true}

	for _, tier := range []models.MysteryBoxTier{models.MysteryBoxTierBronze, models.MysteryBoxTierSilver, models.MysteryBoxTierGold} {
		table, _ := LootTableFor(tier)
		for i := 0; i < 1000; i++ {
			assert.True(t, valid[RollRarity(rng, table.RarityChances)])
		}
	}
}

func TestRollRarityZeroWeightsNeverDrawn(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	bronze, _ := LootTableFor(models.MysteryBoxTierBronze)

	for i := 0; i < 10000; i++ {
		rarity := RollRarity(rng, bronze.RarityChances)
		assert.NotEqual(t, "Epic", rarity)
		assert.NotEqual(t, "Legendary", rarity)
	}
}

func TestRollRarityDegenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		assert.Equal(t, "Common", RollRarity(rng, [5]int{100, 0, 0, 0, 0}))
	}
	for i := 0; i < 100; i++ {
		assert.Equal(t, "Legendary", RollRarity(rng, [5]int{0, 0, 0, 0, 100}))
	}
}

func TestRollRarityDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	gold, _ := LootTableFor(models.MysteryBoxTierGold)

	const trials = 50000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		counts[RollRarity(rng, gold.RarityChances)]++
	}

	// Weights are percentages; allow a percentage point of sampling noise.
	assert.InDelta(t, 0.20, float64(counts["Common"])/trials, 0.01)
	assert.InDelta(t, 0.35, float64(counts["Uncommon"])/trials, 0.01)
	assert.InDelta(t, 0.30, float64(counts["Rare"])/trials, 0.01)
	assert.InDelta(t, 0.12, float64(counts["Epic"])/trials, 0.01)
	assert.InDelta(t, 0.03, float64(counts["Legendary"])/trials, 0.01)
}

func TestGenerateRewards(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for _, tier := range []models.MysteryBoxTier{models.MysteryBoxTierBronze, models.MysteryBoxTierSilver, models.MysteryBoxTierGold} {
		table, _ := LootTableFor(tier)

		for i := 0; i < 200; i++ {
			rewards := GenerateRewards(rng, table)
			require.NotEmpty(t, rewards)

			// First reward is always FLOG within the tier range.
			first := rewards[0]
			assert.Equal(t, models.RewardTypeFlog, first.Type)
			assert.GreaterOrEqual(t, first.Amount, float64(table.FlogMin))
			assert.LessOrEqual(t, first.Amount, float64(table.FlogMax))

			extras := len(rewards) - 1
			assert.GreaterOrEqual(t, extras, table.MinItems)
			assert.LessOrEqual(t, extras, table.MaxItems)

			for _, r := range rewards[1:] {
				switch r.Type {
				case models.RewardTypeXP:
					assertXPInRarityRange(t, r)
				case models.RewardTypeItem:
					assert.NotEmpty(t, r.Name)
					assert.Equal(t, 1.0, r.Amount)
				default:
					t.Fatalf("unexpected reward type %q", r.Type)
				}
			}
		}
	}
}

func assertXPInRarityRange(t *testing.T, r models.MysteryBoxReward) {
	t.Helper()
	ranges := map[string][2]float64{
		"Common":    {25, 50},
		"Uncommon":  {50, 100},
		"Rare":      {100, 200},
		"Epic":      {200, 500},
		"Legendary": {500, 1000},
	}
	bounds, ok := ranges[r.Rarity]
	require.True(t, ok, "unknown rarity %q", r.Rarity)
	assert.GreaterOrEqual(t, r.Amount, bounds[0])
	assert.LessOrEqual(t, r.Amount, bounds[1])
}

func TestRandomItemName(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 100; i++ {
		name := randomItemName(rng, "Common")
		assert.NotContains(t, name, " ", "common items carry no prefix")
	}
	for i := 0; i < 100; i++ {
		name := randomItemName(rng, "Legendary")
		assert.Contains(t, name, " ")
	}
}
