package services

import (
	"fmt"
	"time"

	"gamification-service/models"
	"gamification-service/pkg/errors"
	"gamification-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestService owns the daily quest catalog and per-user progress.
type QuestService struct {
	DB           *gorm.DB
	Wallet       *WalletService
	Gamification *GamificationService
	Activity     *ActivityFeedService
}

func NewQuestService(db *gorm.DB, wallet *WalletService, gamification *GamificationService, activity *ActivityFeedService) *QuestService {
	return &QuestService{
		DB:           db,
		Wallet:       wallet,
		Gamification: gamification,
		Activity:     activity,
	}
}

type QuestRewardResult struct {
	QuestName    string `json:"quest_name"`
	FlogRewarded int    `json:"flog_rewarded"`
	XPRewarded   int    `json:"xp_rewarded"`
	LeveledUp    bool   `json:"leveled_up"`
	NewLevel     int    `json:"new_level"`
	NewTitle     string `json:"new_title"`
}

// EnsureDailyQuests creates today's quest set if it does not exist yet and
// returns it. Idempotent per UTC day: the date-scoped quest ids carry a
// unique index, so a concurrent or repeated call inserts nothing.
func (s *QuestService) EnsureDailyQuests() ([]models.Quest, error) {
	today := time.Now().UTC()

	quests := make([]models.Quest, 0, len(models.DailyQuestTemplates))
	ids := make([]string, 0, len(models.DailyQuestTemplates))
	for _, tmpl := range models.DailyQuestTemplates {
		questID := models.DailyQuestID(tmpl.Kind, today)
		ids = append(ids, questID)
		quests = append(quests, models.Quest{
			ID:          uuid.NewString(),
			QuestID:     questID,
			Name:        tmpl.Name,
			Description: tmpl.Description,
			Type:        models.QuestTypeDaily,
			Kind:        tmpl.Kind,
			Target:      tmpl.Target,
			FlogReward:  tmpl.FlogReward,
			XPReward:    tmpl.XPReward,
			IsActive:    true,
		})
	}

	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "quest_id"}},
		DoNothing: true,
	}).Create(&quests).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create daily quests")
	}

	// Re-read so callers always see the canonical rows, whichever request
	// won the insert.
	var out []models.Quest
	if err := s.DB.Where("quest_id IN ?", ids).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load daily quests")
	}
	return out, nil
}

// GetUserQuestProgress returns today's quests with the user's progress,
// creating zeroed progress rows on first touch.
func (s *QuestService) GetUserQuestProgress(userID string) ([]models.QuestProgress, error) {
	if _, err := s.Gamification.GetOrCreateUser(userID); err != nil {
		return nil, err
	}

	quests, err := s.EnsureDailyQuests()
	if err != nil {
		return nil, err
	}

	progress := make([]models.QuestProgress, 0, len(quests))
	for _, quest := range quests {
		var p models.QuestProgress
		err := s.DB.Where("user_id = ? AND quest_id = ?", userID, quest.ID).First(&p).Error
		if err == gorm.ErrRecordNotFound {
			p = models.QuestProgress{
				ID:      uuid.NewString(),
				UserID:  userID,
				QuestID: quest.ID,
			}
			if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create quest progress")
			}
			// A concurrent first touch may have won the insert; re-read so
			// the caller gets the canonical progress id either way.
			if err := s.DB.Where("user_id = ? AND quest_id = ?", userID, quest.ID).First(&p).Error; err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load quest progress")
			}
		} else if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load quest progress")
		}
		p.Quest = quest
		progress = append(progress, p)
	}
	return progress, nil
}

// IncrementProgress advances today's quest of the given kind. Progress is
// clamped to the target; once a quest is completed further increments are
// silently ignored.
func (s *QuestService) IncrementProgress(userID string, kind models.QuestKind, amount int) error {
	if amount <= 0 {
		amount = 1
	}

	questID := models.DailyQuestID(kind, time.Now().UTC())
	var quest models.Quest
	err := s.DB.Where("quest_id = ? AND is_active = ?", questID, true).First(&quest).Error
	if err == gorm.ErrRecordNotFound {
		return errors.New(errors.ErrCodeQuestNotFound, fmt.Sprintf("no active quest for kind %q today", kind))
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to load quest")
	}

	var completedNow bool
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		progress, err := s.lockOrCreateProgress(tx, userID, quest.ID)
		if err != nil {
			return err
		}

		if progress.Completed {
			return nil
		}

		progress.Progress += amount
		if progress.Progress >= quest.Target {
			progress.Progress = quest.Target
			progress.Completed = true
			now := time.Now().UTC()
			progress.CompletedAt = &now
			completedNow = true
		}

		if err := tx.Save(progress).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save quest progress")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if completedNow {
		logger.Info("quest completed", "user_id", userID, "quest", quest.QuestID)
		_ = s.Activity.AddQuestComplete(userID, userID, quest.Name)
	}
	return nil
}

// ClaimReward pays out a completed quest exactly once. The claim flag and
// both payouts commit in a single transaction; a failed payout leaves the
// quest unclaimed.
func (s *QuestService) ClaimReward(userID, progressID string) (*QuestRewardResult, error) {
	var result *QuestRewardResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var progress models.QuestProgress
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", progressID, userID).
			First(&progress).Error
		if err == gorm.ErrRecordNotFound {
			return errors.New(errors.ErrCodeQuestNotFound, "quest progress not found")
		}
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to load quest progress")
		}

		if !progress.Completed {
			return errors.New(errors.ErrCodeQuestNotCompleted, "quest not completed yet")
		}
		if progress.Claimed {
			return errors.New(errors.ErrCodeRewardAlreadyClaimed, "reward already claimed")
		}

		var quest models.Quest
		if err := tx.Where("id = ?", progress.QuestID).First(&quest).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to load quest")
		}

		if err := s.Wallet.CreditTx(tx, userID, decimal.NewFromInt(int64(quest.FlogReward)),
			models.TxQuestReward, fmt.Sprintf("Quest reward: %s", quest.Name)); err != nil {
			return err
		}

		levelUp, err := s.Gamification.AddExperienceTx(tx, userID, quest.XPReward)
		if err != nil {
			return err
		}

		progress.Claimed = true
		if err := tx.Save(&progress).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to mark quest claimed")
		}

		result = &QuestRewardResult{
			QuestName:    quest.Name,
			FlogRewarded: quest.FlogReward,
			XPRewarded:   quest.XPReward,
			LeveledUp:    levelUp.LeveledUp,
			NewLevel:     levelUp.NewLevel,
			NewTitle:     levelUp.NewTitle,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.LeveledUp {
		_ = s.Activity.AddLevelUp(userID, userID, result.NewLevel, result.NewTitle)
	}
	return result, nil
}

func (s *QuestService) lockOrCreateProgress(tx *gorm.DB, userID, questID string) (*models.QuestProgress, error) {
	var progress models.QuestProgress
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to lock quest progress")
	}

	progress = models.QuestProgress{
		ID:      uuid.NewString(),
		UserID:  userID,
		QuestID: questID,
	}
	// A concurrent insert may win the unique index race; re-lock the
	// canonical row whichever side created it.
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&progress).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create quest progress")
	}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		First(&progress).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to lock quest progress")
	}
	return &progress, nil
}
