package services

import (
	"fmt"

	"gamification-service/models"
	"gamification-service/pkg/errors"
	"gamification-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AchievementService owns the static achievement catalog and per-user
// unlock records. The existence of a UserAchievement row is the sole
// idempotency guard: the reward is paid exactly once, when the row is
// created.
type AchievementService struct {
	DB           *gorm.DB
	Wallet       *WalletService
	Gamification *GamificationService
	Activity     *ActivityFeedService

	catalog map[string]models.Achievement
}

func NewAchievementService(db *gorm.DB, wallet *WalletService, gamification *GamificationService, activity *ActivityFeedService, catalog []models.Achievement) *AchievementService {
	byID := make(map[string]models.Achievement, len(catalog))
	for _, a := range catalog {
		byID[a.AchievementID] = a
	}
	return &AchievementService{
		DB:           db,
		Wallet:       wallet,
		Gamification: gamification,
		Activity:     activity,
		catalog:      byID,
	}
}

type AchievementUnlockResult struct {
	Unlocked        bool               `json:"unlocked"`
	AlreadyUnlocked bool               `json:"already_unlocked"`
	Achievement     models.Achievement `json:"achievement"`
	FlogRewarded    int                `json:"flog_rewarded"`
	XPRewarded      int                `json:"xp_rewarded"`
	LeveledUp       bool               `json:"leveled_up"`
	NewLevel        int                `json:"new_level"`
}

// Seed writes the static catalog into the DB if it is not there yet.
// Runs once at bootstrap, outside request handling.
func (s *AchievementService) Seed() error {
	rows := make([]models.Achievement, 0, len(s.catalog))
	for _, a := range s.catalog {
		a.ID = uuid.NewString()
		rows = append(rows, a)
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "achievement_id"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to seed achievements")
	}
	return nil
}

func (s *AchievementService) AllAchievements() ([]models.Achievement, error) {
	var achievements []models.Achievement
	if err := s.DB.Order("created_at ASC").Find(&achievements).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load achievements")
	}
	return achievements, nil
}

func (s *AchievementService) UserAchievements(userID string) ([]models.UserAchievement, error) {
	var unlocked []models.UserAchievement
	if err := s.DB.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&unlocked).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load user achievements")
	}
	return unlocked, nil
}

// Unlock grants an achievement and pays its rewards. A second unlock of
// the same pair is non-fatal: it reports AlreadyUnlocked and pays nothing.
func (s *AchievementService) Unlock(userID, achievementID string) (*AchievementUnlockResult, error) {
	achievement, ok := s.catalog[achievementID]
	if !ok {
		return nil, errors.New(errors.ErrCodeAchievementNotFound, fmt.Sprintf("unknown achievement %q", achievementID))
	}

	var result *AchievementUnlockResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.Gamification.GetOrCreateUser(userID); err != nil {
			return err
		}

		var existing models.UserAchievement
		err := tx.Where("user_id = ? AND achievement_id = ?", userID, achievementID).First(&existing).Error
		if err == nil {
			result = &AchievementUnlockResult{AlreadyUnlocked: true, Achievement: achievement}
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to check achievement")
		}

		unlock := models.UserAchievement{
			ID:            uuid.NewString(),
			UserID:        userID,
			AchievementID: achievementID,
		}
		if err := tx.Create(&unlock).Error; err != nil {
			// A concurrent unlock may have won the unique index race;
			// that counts as already unlocked, not a failure.
			if err == gorm.ErrDuplicatedKey {
				result = &AchievementUnlockResult{AlreadyUnlocked: true, Achievement: achievement}
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create unlock record")
		}

		if err := s.Wallet.CreditTx(tx, userID, decimal.NewFromInt(int64(achievement.FlogReward)),
			models.TxAchievementReward, fmt.Sprintf("Achievement unlocked: %s", achievement.Name)); err != nil {
			return err
		}

		levelUp, err := s.Gamification.AddExperienceTx(tx, userID, achievement.XPReward)
		if err != nil {
			return err
		}

		result = &AchievementUnlockResult{
			Unlocked:     true,
			Achievement:  achievement,
			FlogRewarded: achievement.FlogReward,
			XPRewarded:   achievement.XPReward,
			LeveledUp:    levelUp.LeveledUp,
			NewLevel:     levelUp.NewLevel,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Unlocked {
		logger.Info("achievement unlocked", "user_id", userID, "achievement", achievementID)
		_ = s.Activity.AddAchievement(userID, userID, achievement.Name, achievement.Icon)
	}
	return result, nil
}

// CheckAndUnlock evaluates the derived unlock conditions against current
// state and unlocks everything satisfied. Safe to call repeatedly; the
// unlock guard absorbs duplicates.
func (s *AchievementService) CheckAndUnlock(userID string) ([]AchievementUnlockResult, error) {
	user, err := s.Gamification.GetOrCreateUser(userID)
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0, 4)
	if user.Level >= 10 {
		candidates = append(candidates, "level_10")
	}
	if user.Level >= 25 {
		candidates = append(candidates, "level_25")
	}
	if user.Level >= 50 {
		candidates = append(candidates, "level_50")
	}
	if user.StreakDays >= 7 {
		candidates = append(candidates, "streak_warrior")
	}

	var openings int64
	if err := s.DB.Model(&models.MysteryBoxOpening{}).
		Where("user_id = ?", userID).
		Count(&openings).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count box openings")
	}
	if openings >= 10 {
		candidates = append(candidates, "mystery_master")
	}

	wallet, err := s.Wallet.GetOrCreateWallet(userID)
	if err != nil {
		return nil, err
	}
	var trades int64
	if err := s.DB.Model(&models.Transaction{}).
		Where("user_wallet_id = ? AND type IN ?", wallet.ID, []models.TransactionType{models.TxPurchase, models.TxSale}).
		Count(&trades).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count trades")
	}
	if trades >= 100 {
		candidates = append(candidates, "trading_tycoon")
	}

	var unlocked []AchievementUnlockResult
	for _, id := range candidates {
		result, err := s.Unlock(userID, id)
		if err != nil {
			return unlocked, err
		}
		if result.Unlocked {
			unlocked = append(unlocked, *result)
		}
	}
	return unlocked, nil
}
