package services

import (
	"fmt"
	"math/rand"

	"gamification-service/models"
)

// LootTable is the static weighted-probability config for one box tier.
// RarityChances is cumulative-roll material: one weight per rarity bucket,
// Common through Legendary, summing to 100.
type LootTable struct {
	FlogMin       int
	FlogMax       int
	RarityChances [5]int
	MinItems      int
	MaxItems      int
}

var lootTables = map[models.MysteryBoxTier]LootTable{
	models.MysteryBoxTierBronze: {
		FlogMin:       50,
		FlogMax:       200,
		RarityChances: [5]int{70, 25, 5, 0, 0},
		MinItems:      1,
		MaxItems:      2,
	},
	models.MysteryBoxTierSilver: {
		FlogMin:       100,
		FlogMax:       500,
		RarityChances: [5]int{40, 40, 15, 5, 0},
		MinItems:      2,
		MaxItems:      3,
	},
	models.MysteryBoxTierGold: {
		FlogMin:       200,
		FlogMax:       1000,
		RarityChances: [5]int{20, 35, 30, 12, 3},
		MinItems:      3,
		MaxItems:      5,
	},
}

var rarityNames = [5]string{"Common", "Uncommon", "Rare", "Epic", "Legendary"}

// LootTableFor returns the loot table for a tier.
func LootTableFor(tier models.MysteryBoxTier) (LootTable, bool) {
	table, ok := lootTables[tier]
	return table, ok
}

// RollRarity draws one rarity from the cumulative weight vector using the
// provided random source. Callers pass a seeded source in tests to pin
// outcomes.
func RollRarity(rng *rand.Rand, chances [5]int) string {
	roll := rng.Intn(100)
	cumulative := 0
	for i, chance := range chances {
		cumulative += chance
		if roll < cumulative {
			return rarityNames[i]
		}
	}
	return rarityNames[0]
}

// GenerateRewards rolls the full reward set for one box opening: always
// one FLOG reward from the tier's range, then MinItems..MaxItems extra
// rewards that are each, with even odds, an XP boost or a named item.
func GenerateRewards(rng *rand.Rand, table LootTable) []models.MysteryBoxReward {
	rewards := []models.MysteryBoxReward{
		{
			Type:   models.RewardTypeFlog,
			Name:   "FLOG Coins",
			Amount: float64(table.FlogMin + rng.Intn(table.FlogMax-table.FlogMin+1)),
			Rarity: "Common",
		},
	}

	itemCount := table.MinItems + rng.Intn(table.MaxItems-table.MinItems+1)
	for i := 0; i < itemCount; i++ {
		rarity := RollRarity(rng, table.RarityChances)

		if rng.Intn(2) == 0 {
			rewards = append(rewards, models.MysteryBoxReward{
				Type:   models.RewardTypeXP,
				Name:   fmt.Sprintf("%s XP Boost", rarity),
				Amount: float64(xpBoostAmount(rng, rarity)),
				Rarity: rarity,
			})
		} else {
			rewards = append(rewards, models.MysteryBoxReward{
				Type:   models.RewardTypeItem,
				Name:   randomItemName(rng, rarity),
				Amount: 1,
				Rarity: rarity,
			})
		}
	}

	return rewards
}

// xpBoostAmount scales the XP reward by rarity.
func xpBoostAmount(rng *rand.Rand, rarity string) int {
	switch rarity {
	case "Legendary":
		return 500 + rng.Intn(500)
	case "Epic":
		return 200 + rng.Intn(300)
	case "Rare":
		return 100 + rng.Intn(100)
	case "Uncommon":
		return 50 + rng.Intn(50)
	default:
		return 25 + rng.Intn(25)
	}
}

var itemPrefixes = []string{"Ancient", "Mystic", "Enchanted", "Rare", "Legendary", "Epic", "Common", "Unusual"}
var itemNouns = []string{"Sword", "Shield", "Amulet", "Ring", "Potion", "Scroll", "Gem", "Artifact", "Rune"}

// randomItemName combines a flavor prefix with a generic noun. Common
// items get no prefix.
func randomItemName(rng *rand.Rand, rarity string) string {
	noun := itemNouns[rng.Intn(len(itemNouns))]
	if rarity == "Common" {
		return noun
	}
	prefix := itemPrefixes[rng.Intn(len(itemPrefixes))]
	return fmt.Sprintf("%s %s", prefix, noun)
}
