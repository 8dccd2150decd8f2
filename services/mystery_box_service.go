package services

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gamification-service/models"
	"gamification-service/pkg/errors"
	"gamification-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MysteryBoxService sells and opens mystery boxes. The debit, the reward
// payouts and the opening record commit in a single transaction: a failed
// debit generates no rewards, and a failed payout rolls the debit back.
type MysteryBoxService struct {
	DB           *gorm.DB
	Wallet       *WalletService
	Gamification *GamificationService
	Activity     *ActivityFeedService

	catalog map[string]models.MysteryBox

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMysteryBoxService wires the engine. Pass a seeded rng in tests to pin
// loot outcomes; nil uses a time-seeded source.
func NewMysteryBoxService(db *gorm.DB, wallet *WalletService, gamification *GamificationService, activity *ActivityFeedService, catalog []models.MysteryBox, rng *rand.Rand) *MysteryBoxService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	byID := make(map[string]models.MysteryBox, len(catalog))
	for _, box := range catalog {
		byID[box.BoxID] = box
	}
	return &MysteryBoxService{
		DB:           db,
		Wallet:       wallet,
		Gamification: gamification,
		Activity:     activity,
		catalog:      byID,
		rng:          rng,
	}
}

type MysteryBoxOpenResult struct {
	BoxName           string                    `json:"box_name"`
	Rewards           []models.MysteryBoxReward `json:"rewards"`
	TotalFlogRewarded decimal.Decimal           `json:"total_flog_rewarded"`
	TotalXPRewarded   int                       `json:"total_xp_rewarded"`
	LeveledUp         bool                      `json:"leveled_up"`
	NewLevel          int                       `json:"new_level"`
	NewTitle          string                    `json:"new_title"`
}

// Seed writes the box catalog into the DB if it is not there yet.
func (s *MysteryBoxService) Seed() error {
	rows := make([]models.MysteryBox, 0, len(s.catalog))
	for _, box := range s.catalog {
		box.ID = uuid.NewString()
		rows = append(rows, box)
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "box_id"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to seed mystery boxes")
	}
	return nil
}

func (s *MysteryBoxService) AvailableBoxes() ([]models.MysteryBox, error) {
	var boxes []models.MysteryBox
	if err := s.DB.Order("price ASC").Find(&boxes).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load mystery boxes")
	}
	return boxes, nil
}

func (s *MysteryBoxService) UserOpenings(userID string, limit int) ([]models.MysteryBoxOpening, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	var openings []models.MysteryBoxOpening
	if err := s.DB.Where("user_id = ?", userID).
		Order("opened_at DESC").
		Limit(limit).
		Find(&openings).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load box openings")
	}
	return openings, nil
}

// OpenBox charges the box price, rolls the loot and pays it out.
func (s *MysteryBoxService) OpenBox(userID, boxID string) (*MysteryBoxOpenResult, error) {
	box, ok := s.catalog[boxID]
	if !ok {
		return nil, errors.New(errors.ErrCodeBoxNotFound, fmt.Sprintf("unknown mystery box %q", boxID))
	}

	table, ok := LootTableFor(box.Tier)
	if !ok {
		return nil, errors.New(errors.ErrCodeInternalError, fmt.Sprintf("no loot table for tier %q", box.Tier))
	}

	var result *MysteryBoxOpenResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Debit first: if the user cannot afford the box, no rewards are
		// ever generated.
		if err := s.Wallet.DebitTx(tx, userID, box.Price,
			models.TxMysteryBox, fmt.Sprintf("Opened %s", box.Name)); err != nil {
			return err
		}

		s.mu.Lock()
		rewards := GenerateRewards(s.rng, table)
		s.mu.Unlock()

		totalFlog := decimal.Zero
		var totalXP int
		var lastLevelUp *LevelUpResult
		for _, reward := range rewards {
			switch reward.Type {
			case models.RewardTypeFlog:
				// Loot amounts are whole numbers, so the conversion is exact.
				flog := decimal.NewFromFloat(reward.Amount)
				if err := s.Wallet.CreditTx(tx, userID, flog,
					models.TxMysteryBox, fmt.Sprintf("Mystery box reward: %s FLOG", flog)); err != nil {
					return err
				}
				totalFlog = totalFlog.Add(flog)
			case models.RewardTypeXP:
				levelUp, err := s.Gamification.AddExperienceTx(tx, userID, int(reward.Amount))
				if err != nil {
					return err
				}
				totalXP += int(reward.Amount)
				lastLevelUp = levelUp
			}
		}

		rewardsJSON, err := json.Marshal(rewards)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to serialize rewards")
		}

		opening := models.MysteryBoxOpening{
			ID:            uuid.NewString(),
			UserID:        userID,
			BoxID:         box.BoxID,
			FlogSpent:     box.Price,
			FlogReceived:  totalFlog,
			ItemsReceived: len(rewards),
			RewardsJSON:   string(rewardsJSON),
		}
		if err := tx.Create(&opening).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to record box opening")
		}

		result = &MysteryBoxOpenResult{
			BoxName:           box.Name,
			Rewards:           rewards,
			TotalFlogRewarded: totalFlog,
			TotalXPRewarded:   totalXP,
		}
		if lastLevelUp != nil {
			result.LeveledUp = lastLevelUp.LeveledUp
			result.NewLevel = lastLevelUp.NewLevel
			result.NewTitle = lastLevelUp.NewTitle
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("mystery box opened",
		"user_id", userID, "box", box.BoxID,
		"flog_received", result.TotalFlogRewarded, "xp_received", result.TotalXPRewarded)
	_ = s.Activity.AddMysteryBox(userID, userID, box.Name, len(result.Rewards))

	return result, nil
}
