package services

import (
	"fmt"
	"sort"

	"gamification-service/models"
	"gamification-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletService owns every FLOG balance mutation. Each credit or debit
// locks the wallet row, applies the change and appends the audit
// transaction inside one DB transaction, so the balance and the log can
// never drift apart and the balance check is never based on stale data.
// All amounts are decimals; the 5% fee split stays exact.
type WalletService struct {
	DB *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{DB: db}
}

// GetOrCreateWallet returns the user's wallet, creating it with the
// starting balance on first touch. Creation writes no transaction row.
func (s *WalletService) GetOrCreateWallet(userID string) (*models.UserWallet, error) {
	var wallet models.UserWallet
	err := s.DB.Where("user_id = ?", userID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load wallet")
	}

	wallet = models.UserWallet{
		ID:          uuid.NewString(),
		UserID:      userID,
		FlogBalance: models.StartingBalance,
	}
	// A concurrent first touch may win the insert; the conflict clause
	// makes that a no-op and the re-read returns the canonical row.
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&wallet).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create wallet")
	}
	if err := s.DB.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load wallet")
	}
	return &wallet, nil
}

func (s *WalletService) GetBalance(userID string) (decimal.Decimal, error) {
	wallet, err := s.GetOrCreateWallet(userID)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.FlogBalance, nil
}

// Credit increases the balance and appends a positive transaction.
func (s *WalletService) Credit(userID string, amount decimal.Decimal, txType models.TransactionType, description string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CreditTx(tx, userID, amount, txType, description)
	})
}

// CreditTx is Credit running inside an existing transaction, so reward
// payouts commit together with the state change that triggered them.
func (s *WalletService) CreditTx(tx *gorm.DB, userID string, amount decimal.Decimal, txType models.TransactionType, description string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.New(errors.ErrCodeInvalidAmount, fmt.Sprintf("credit amount must be positive, got %s", amount))
	}

	wallet, err := s.lockWallet(tx, userID)
	if err != nil {
		return err
	}

	wallet.FlogBalance = wallet.FlogBalance.Add(amount)
	wallet.TotalEarned = wallet.TotalEarned.Add(amount)
	if err := tx.Save(wallet).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update wallet")
	}

	return s.appendTransaction(tx, wallet.ID, userID, "", nil, amount, decimal.Zero, txType, description)
}

// Debit decreases the balance and appends a negative transaction. The
// balance check and the mutation run under the same row lock.
func (s *WalletService) Debit(userID string, amount decimal.Decimal, txType models.TransactionType, description string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.DebitTx(tx, userID, amount, txType, description)
	})
}

func (s *WalletService) DebitTx(tx *gorm.DB, userID string, amount decimal.Decimal, txType models.TransactionType, description string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.New(errors.ErrCodeInvalidAmount, fmt.Sprintf("debit amount must be positive, got %s", amount))
	}

	wallet, err := s.lockWallet(tx, userID)
	if err != nil {
		return err
	}

	if wallet.FlogBalance.LessThan(amount) {
		return errors.New(errors.ErrCodeInsufficientFunds,
			fmt.Sprintf("insufficient FLOG: have %s, need %s", wallet.FlogBalance, amount))
	}

	wallet.FlogBalance = wallet.FlogBalance.Sub(amount)
	wallet.TotalSpent = wallet.TotalSpent.Add(amount)
	if err := tx.Save(wallet).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update wallet")
	}

	return s.appendTransaction(tx, wallet.ID, userID, "", nil, amount.Neg(), decimal.Zero, txType, description)
}

// Stake moves funds from the spendable balance into the staked bucket.
func (s *WalletService) Stake(userID string, amount decimal.Decimal) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if amount.LessThanOrEqual(decimal.Zero) {
			return errors.New(errors.ErrCodeInvalidAmount, fmt.Sprintf("stake amount must be positive, got %s", amount))
		}

		wallet, err := s.lockWallet(tx, userID)
		if err != nil {
			return err
		}
		if wallet.FlogBalance.LessThan(amount) {
			return errors.New(errors.ErrCodeInsufficientFunds,
				fmt.Sprintf("insufficient FLOG: have %s, need %s", wallet.FlogBalance, amount))
		}

		wallet.FlogBalance = wallet.FlogBalance.Sub(amount)
		wallet.FlogStaked = wallet.FlogStaked.Add(amount)
		if err := tx.Save(wallet).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update wallet")
		}

		return s.appendTransaction(tx, wallet.ID, userID, "", nil, amount.Neg(), decimal.Zero,
			models.TxStaking, fmt.Sprintf("Staked %s FLOG", amount))
	})
}

// Unstake moves funds back from the staked bucket into the balance.
func (s *WalletService) Unstake(userID string, amount decimal.Decimal) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if amount.LessThanOrEqual(decimal.Zero) {
			return errors.New(errors.ErrCodeInvalidAmount, fmt.Sprintf("unstake amount must be positive, got %s", amount))
		}

		wallet, err := s.lockWallet(tx, userID)
		if err != nil {
			return err
		}
		if wallet.FlogStaked.LessThan(amount) {
			return errors.New(errors.ErrCodeInsufficientStake,
				fmt.Sprintf("insufficient staked FLOG: have %s, need %s", wallet.FlogStaked, amount))
		}

		wallet.FlogStaked = wallet.FlogStaked.Sub(amount)
		wallet.FlogBalance = wallet.FlogBalance.Add(amount)
		if err := tx.Save(wallet).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update wallet")
		}

		return s.appendTransaction(tx, wallet.ID, userID, "", nil, amount, decimal.Zero,
			models.TxUnstaking, fmt.Sprintf("Unstaked %s FLOG", amount))
	})
}

// PurchaseTransferTx settles a marketplace purchase: the buyer pays the
// full amount, the seller receives it minus the fee, and both sides get
// their audit transaction. Wallets are locked in userID order so two
// opposing purchases can never deadlock.
func (s *WalletService) PurchaseTransferTx(tx *gorm.DB, buyerID, sellerID string, itemID *string, amount, fee decimal.Decimal, itemName string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.New(errors.ErrCodeInvalidAmount, fmt.Sprintf("purchase amount must be positive, got %s", amount))
	}

	order := []string{buyerID, sellerID}
	sort.Strings(order)

	wallets := make(map[string]*models.UserWallet, 2)
	for _, id := range order {
		w, err := s.lockWallet(tx, id)
		if err != nil {
			return err
		}
		wallets[id] = w
	}

	buyer := wallets[buyerID]
	seller := wallets[sellerID]
	if buyer.FlogBalance.LessThan(amount) {
		return errors.New(errors.ErrCodeInsufficientFunds,
			fmt.Sprintf("insufficient FLOG: have %s, need %s", buyer.FlogBalance, amount))
	}

	sellerReceives := amount.Sub(fee)

	buyer.FlogBalance = buyer.FlogBalance.Sub(amount)
	buyer.TotalSpent = buyer.TotalSpent.Add(amount)
	seller.FlogBalance = seller.FlogBalance.Add(sellerReceives)
	seller.TotalEarned = seller.TotalEarned.Add(sellerReceives)

	if err := tx.Save(buyer).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update buyer wallet")
	}
	if err := tx.Save(seller).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update seller wallet")
	}

	if err := s.appendTransaction(tx, buyer.ID, buyerID, sellerID, itemID, amount.Neg(), fee,
		models.TxPurchase, fmt.Sprintf("Purchased %s", itemName)); err != nil {
		return err
	}
	return s.appendTransaction(tx, seller.ID, buyerID, sellerID, itemID, sellerReceives, fee,
		models.TxSale, fmt.Sprintf("Sold %s", itemName))
}

// TransactionHistory returns the most recent transactions, newest first.
// The limit defaults to 50 and is capped at 200.
func (s *WalletService) TransactionHistory(userID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 50
	} else if limit > 200 {
		limit = 200
	}

	wallet, err := s.GetOrCreateWallet(userID)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := s.DB.Where("user_wallet_id = ?", wallet.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load transaction history")
	}
	return transactions, nil
}

// lockWallet loads the wallet under a FOR UPDATE row lock, creating it
// with the starting balance if absent. Per-user mutations serialize on
// this lock; different users never contend.
func (s *WalletService) lockWallet(tx *gorm.DB, userID string) (*models.UserWallet, error) {
	var wallet models.UserWallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to lock wallet")
	}

	wallet = models.UserWallet{
		ID:          uuid.NewString(),
		UserID:      userID,
		FlogBalance: models.StartingBalance,
	}
	// A concurrent first touch may win the insert; re-lock the canonical
	// row whichever side created it.
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&wallet).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create wallet")
	}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to lock wallet")
	}
	return &wallet, nil
}

func (s *WalletService) appendTransaction(tx *gorm.DB, walletID, buyerID, sellerID string, itemID *string, amount, fee decimal.Decimal, txType models.TransactionType, description string) error {
	record := models.Transaction{
		ID:           uuid.NewString(),
		UserWalletID: walletID,
		BuyerID:      buyerID,
		SellerID:     sellerID,
		ItemID:       itemID,
		Amount:       amount,
		Fee:          fee,
		Type:         txType,
		Description:  description,
	}
	if err := tx.Create(&record).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to append transaction")
	}
	return nil
}
