package services

import (
	"testing"

	"gamification-service/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlockPaysExactlyOnce(t *testing.T) {
	db := testDB(t)
	wallet := NewWalletService(db)
	gamification := NewGamificationService(db, nil)
	activity := NewActivityFeedService(db)
	achievements := NewAchievementService(db, wallet, gamification, activity, models.AchievementCatalog)
	require.NoError(t, achievements.Seed())

	userID := uuid.NewString()
	before, err := wallet.GetBalance(userID)
	require.NoError(t, err)

	first, err := achievements.Unlock(userID, "first_sale")
	require.NoError(t, err)
	require.True(t, first.Unlocked)
	require.False(t, first.AlreadyUnlocked)
	require.Equal(t, first.Achievement.FlogReward, first.FlogRewarded)

	second, err := achievements.Unlock(userID, "first_sale")
	require.NoError(t, err)
	assert.False(t, second.Unlocked)
	assert.True(t, second.AlreadyUnlocked)
	assert.Zero(t, second.FlogRewarded)

	var count int64
	require.NoError(t, db.Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	after, err := wallet.GetBalance(userID)
	require.NoError(t, err)
	want := before.Add(decimal.NewFromInt(int64(first.Achievement.FlogReward)))
	assert.True(t, after.Equal(want), "balance = %s, want %s", after, want)
}
