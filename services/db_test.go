package services

import (
	"os"
	"testing"

	"gamification-service/models"
	"gamification-service/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// testDB opens the database named by TEST_DATABASE_URL, or skips the test
// when none is configured. The row-locking paths need real Postgres
// semantics, so these tests do not run against an embedded store.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	logger.Init()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserWallet{},
		&models.Transaction{},
		&models.UserGamification{},
		&models.Quest{},
		&models.QuestProgress{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.MysteryBox{},
		&models.MysteryBoxOpening{},
		&models.ActivityFeed{},
	))
	return db
}
