package services

import (
	"fmt"

	"gamification-service/models"
	"gamification-service/pkg/errors"
	"gamification-service/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MarketplaceService is the entry point for auction/bidding collaborators.
// It turns marketplace events into wallet movements, XP, quest progress
// and achievement checks.
type MarketplaceService struct {
	DB           *gorm.DB
	Wallet       *WalletService
	Gamification *GamificationService
	Quests       *QuestService
	Achievements *AchievementService
	Activity     *ActivityFeedService
}

func NewMarketplaceService(db *gorm.DB, wallet *WalletService, gamification *GamificationService, quests *QuestService, achievements *AchievementService, activity *ActivityFeedService) *MarketplaceService {
	return &MarketplaceService{
		DB:           db,
		Wallet:       wallet,
		Gamification: gamification,
		Quests:       quests,
		Achievements: achievements,
		Activity:     activity,
	}
}

type PurchaseResult struct {
	Fee              decimal.Decimal `json:"fee"`
	SellerReceives   decimal.Decimal `json:"seller_receives"`
	BuyerNewBalance  decimal.Decimal `json:"buyer_new_balance"`
	SellerNewBalance decimal.Decimal `json:"seller_new_balance"`
	BuyerLevelUp     *LevelUpResult  `json:"buyer_level_up,omitempty"`
	SellerLevelUp    *LevelUpResult  `json:"seller_level_up,omitempty"`
}

type DailyLoginResult struct {
	Bonus      decimal.Decimal `json:"bonus"`
	StreakDays int             `json:"streak_days"`
}

// MarketplaceFee returns the fee withheld from the seller on a purchase.
func MarketplaceFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(models.MarketplaceFeePercentage)
}

// RecordPurchase settles a completed auction purchase: the buyer pays the
// full amount, the seller receives it minus the marketplace fee, and both
// sides earn XP. The money movement and the XP commit together; quest
// progress, achievement checks and the feed write follow best-effort.
func (s *MarketplaceService) RecordPurchase(buyerID, sellerID string, itemID *string, amount decimal.Decimal, itemName string) (*PurchaseResult, error) {
	if buyerID == sellerID {
		return nil, errors.New(errors.ErrCodeValidation, "buyer and seller must differ")
	}

	fee := MarketplaceFee(amount)
	result := &PurchaseResult{Fee: fee, SellerReceives: amount.Sub(fee)}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Wallet.PurchaseTransferTx(tx, buyerID, sellerID, itemID, amount, fee, itemName); err != nil {
			return err
		}

		buyerLevelUp, err := s.Gamification.AddExperienceTx(tx, buyerID, models.PurchaseXPReward)
		if err != nil {
			return err
		}
		sellerLevelUp, err := s.Gamification.AddExperienceTx(tx, sellerID, models.SaleXPReward)
		if err != nil {
			return err
		}

		result.BuyerLevelUp = buyerLevelUp
		result.SellerLevelUp = sellerLevelUp
		return nil
	})
	if err != nil {
		return nil, err
	}

	if balance, err := s.Wallet.GetBalance(buyerID); err == nil {
		result.BuyerNewBalance = balance
	}
	if balance, err := s.Wallet.GetBalance(sellerID); err == nil {
		result.SellerNewBalance = balance
	}

	logger.Info("purchase recorded",
		"buyer_id", buyerID, "seller_id", sellerID, "item", itemName, "amount", amount, "fee", fee)

	if err := s.Quests.IncrementProgress(buyerID, models.QuestKindPurchase, 1); err != nil &&
		!errors.HasCode(err, errors.ErrCodeQuestNotFound) {
		logger.Warn("purchase quest progress failed", "buyer_id", buyerID, "error", err)
	}

	if _, err := s.Achievements.Unlock(buyerID, "first_purchase"); err != nil {
		logger.Warn("first_purchase unlock failed", "buyer_id", buyerID, "error", err)
	}
	if _, err := s.Achievements.Unlock(sellerID, "first_sale"); err != nil {
		logger.Warn("first_sale unlock failed", "seller_id", sellerID, "error", err)
	}
	if _, err := s.Achievements.CheckAndUnlock(buyerID); err != nil {
		logger.Warn("achievement check failed", "user_id", buyerID, "error", err)
	}
	if _, err := s.Achievements.CheckAndUnlock(sellerID); err != nil {
		logger.Warn("achievement check failed", "user_id", sellerID, "error", err)
	}

	_ = s.Activity.AddPurchase(buyerID, buyerID, itemName, amount)

	return result, nil
}

// RecordListing pays the flat listing reward and advances the listing
// quest.
func (s *MarketplaceService) RecordListing(userID, itemName string) error {
	if err := s.Wallet.Credit(userID, models.ListingReward,
		models.TxSale, fmt.Sprintf("Reward for listing %s", itemName)); err != nil {
		return err
	}

	if err := s.Quests.IncrementProgress(userID, models.QuestKindListing, 1); err != nil &&
		!errors.HasCode(err, errors.ErrCodeQuestNotFound) {
		logger.Warn("listing quest progress failed", "user_id", userID, "error", err)
	}

	_ = s.Activity.AddListing(userID, userID, itemName)
	return nil
}

// RecordSocialAction advances the social quest (likes, comments).
func (s *MarketplaceService) RecordSocialAction(userID string, amount int) error {
	err := s.Quests.IncrementProgress(userID, models.QuestKindSocial, amount)
	if errors.HasCode(err, errors.ErrCodeQuestNotFound) {
		return nil
	}
	return err
}

// RecordDailyLogin pays the daily bonus, updates the login streak,
// advances the login quest and re-checks streak achievements.
func (s *MarketplaceService) RecordDailyLogin(userID string) (*DailyLoginResult, error) {
	if err := s.Wallet.Credit(userID, models.DailyLoginBonus,
		models.TxDailyBonus, "Daily login bonus"); err != nil {
		return nil, err
	}

	streak, err := s.Gamification.UpdateLoginStreak(userID)
	if err != nil {
		return nil, err
	}

	if err := s.Quests.IncrementProgress(userID, models.QuestKindLogin, 1); err != nil &&
		!errors.HasCode(err, errors.ErrCodeQuestNotFound) {
		logger.Warn("login quest progress failed", "user_id", userID, "error", err)
	}

	if _, err := s.Achievements.CheckAndUnlock(userID); err != nil {
		logger.Warn("achievement check failed", "user_id", userID, "error", err)
	}

	return &DailyLoginResult{
		Bonus:      models.DailyLoginBonus,
		StreakDays: streak,
	}, nil
}
