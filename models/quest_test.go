package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyQuestID(t *testing.T) {
	day := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, "daily-login-2026-09-01", DailyQuestID(QuestKindLogin, day))
	assert.Equal(t, "list-items-2026-09-01", DailyQuestID(QuestKindListing, day))
	assert.Equal(t, "make-purchase-2026-09-01", DailyQuestID(QuestKindPurchase, day))
	assert.Equal(t, "social-actions-2026-09-01", DailyQuestID(QuestKindSocial, day))
}

func TestDailyQuestIDIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2026, 9, 1, 0, 0, 1, 0, time.UTC)
	night := time.Date(2026, 9, 1, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, DailyQuestID(QuestKindLogin, morning), DailyQuestID(QuestKindLogin, night))
}

func TestDailyQuestIDUsesUTCDay(t *testing.T) {
	// 23:00 in UTC-3 is already the next UTC day.
	loc := time.FixedZone("UTC-3", -3*60*60)
	local := time.Date(2026, 8, 31, 23, 0, 0, 0, loc)

	assert.Equal(t, "daily-login-2026-09-01", DailyQuestID(QuestKindLogin, local))
}

func TestDailyQuestIDDistinctAcrossDays(t *testing.T) {
	d1 := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	assert.NotEqual(t, DailyQuestID(QuestKindLogin, d1), DailyQuestID(QuestKindLogin, d2))
}

func TestDailyQuestTemplates(t *testing.T) {
	assert.Len(t, DailyQuestTemplates, 4)

	kinds := map[QuestKind]bool{}
	for _, tpl := range DailyQuestTemplates {
		assert.False(t, kinds[tpl.Kind], "duplicate kind %s", tpl.Kind)
		kinds[tpl.Kind] = true
		assert.Positive(t, tpl.Target)
		assert.Positive(t, tpl.FlogReward)
		assert.Positive(t, tpl.XPReward)
	}
}
