package services

import (
	"sync"
	"testing"

	"gamification-service/models"
	"gamification-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuestTestService(t *testing.T) *QuestService {
	t.Helper()
	db := testDB(t)
	wallet := NewWalletService(db)
	gamification := NewGamificationService(db, nil)
	activity := NewActivityFeedService(db)
	return NewQuestService(db, wallet, gamification, activity)
}

func TestEnsureDailyQuestsIdempotent(t *testing.T) {
	quests := newQuestTestService(t)

	first, err := quests.EnsureDailyQuests()
	require.NoError(t, err)
	require.Len(t, first, len(models.DailyQuestTemplates))

	second, err := quests.EnsureDailyQuests()
	require.NoError(t, err)
	require.Len(t, second, len(first))

	// Same canonical rows both times, no duplicates in the table.
	byQuestID := make(map[string]string, len(first))
	ids := make([]string, 0, len(first))
	for _, q := range first {
		byQuestID[q.QuestID] = q.ID
		ids = append(ids, q.QuestID)
	}
	for _, q := range second {
		assert.Equal(t, byQuestID[q.QuestID], q.ID, "quest %s changed identity between calls", q.QuestID)
	}
	var count int64
	require.NoError(t, quests.DB.Model(&models.Quest{}).Where("quest_id IN ?", ids).Count(&count).Error)
	assert.Equal(t, int64(len(first)), count)
}

func TestClaimRewardPaysExactlyOnce(t *testing.T) {
	quests := newQuestTestService(t)
	userID := uuid.NewString()

	_, err := quests.EnsureDailyQuests()
	require.NoError(t, err)
	require.NoError(t, quests.IncrementProgress(userID, models.QuestKindLogin, 1))

	progress, err := quests.GetUserQuestProgress(userID)
	require.NoError(t, err)
	var login *models.QuestProgress
	for i := range progress {
		if progress[i].Quest.Kind == models.QuestKindLogin {
			login = &progress[i]
		}
	}
	require.NotNil(t, login)
	require.True(t, login.Completed)

	before, err := quests.Wallet.GetBalance(userID)
	require.NoError(t, err)

	result, err := quests.ClaimReward(userID, login.ID)
	require.NoError(t, err)
	require.Equal(t, login.Quest.FlogReward, result.FlogRewarded)

	after, err := quests.Wallet.GetBalance(userID)
	require.NoError(t, err)
	want := before.Add(decimal.NewFromInt(int64(login.Quest.FlogReward)))
	require.True(t, after.Equal(want), "balance = %s, want %s", after, want)

	_, err = quests.ClaimReward(userID, login.ID)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeRewardAlreadyClaimed), "unexpected error: %v", err)

	// The second claim must not move the balance.
	final, err := quests.Wallet.GetBalance(userID)
	require.NoError(t, err)
	assert.True(t, final.Equal(want), "balance = %s, want %s", final, want)
}

func TestQuestProgressIDsAreCanonical(t *testing.T) {
	quests := newQuestTestService(t)
	userID := uuid.NewString()

	results := make([][]models.QuestProgress, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = quests.GetUserQuestProgress(userID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 2; i++ {
		require.NoError(t, errs[i])
		require.Len(t, results[i], len(models.DailyQuestTemplates))
		// Every returned id must point at a row that actually exists, even
		// when the concurrent caller won the insert.
		for _, p := range results[i] {
			var row models.QuestProgress
			require.NoError(t, quests.DB.Where("id = ?", p.ID).First(&row).Error,
				"progress id %s not found in store", p.ID)
		}
	}

	var count int64
	require.NoError(t, quests.DB.Model(&models.QuestProgress{}).
		Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(len(models.DailyQuestTemplates)), count)
}
