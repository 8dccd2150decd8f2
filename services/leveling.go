package services

import (
	"time"

	"gamification-service/models"
)

// XPForNextLevel returns the XP needed to advance from level to level+1.
// The curve is progressive: 150 for 1→2, 200 for 2→3, and so on.
func XPForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return models.BaseXPForLevel + level*models.XPStepPerLevel
}

// SettleXP converts accumulated XP into level increments until the XP
// falls below the next threshold or the level cap is reached. XP in
// excess of the cap is retained, not discarded (soft cap).
func SettleXP(xp, level int) (int, int, bool) {
	leveledUp := false
	for level < models.MaxLevel && xp >= XPForNextLevel(level) {
		xp -= XPForNextLevel(level)
		level++
		leveledUp = true
	}
	return xp, level, leveledUp
}

// TitleForLevel maps a level to its display title.
func TitleForLevel(level int) string {
	switch {
	case level >= 50:
		return "Trading Legend"
	case level >= 40:
		return "Master Merchant"
	case level >= 30:
		return "Expert Trader"
	case level >= 20:
		return "Skilled Dealer"
	case level >= 10:
		return "Experienced Seller"
	case level >= 5:
		return "Apprentice Trader"
	default:
		return "Novice Trader"
	}
}

// NextStreak applies the login streak rules: a return on the next calendar
// day extends the streak, a gap of two or more days resets it to 1, and a
// second login within the same day leaves it unchanged.
func NextStreak(current int, lastLogin, now time.Time) int {
	days := now.Sub(lastLogin).Hours() / 24
	switch {
	case days >= 1 && days < 2:
		return current + 1
	case days >= 2:
		return 1
	default:
		return current
	}
}
