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

func TestCreditDebitRoundTrip(t *testing.T) {
	db := testDB(t)
	wallet := NewWalletService(db)
	userID := uuid.NewString()

	start, err := wallet.GetBalance(userID)
	require.NoError(t, err)
	require.True(t, start.Equal(models.StartingBalance))

	amount := decimal.RequireFromString("123.45")
	require.NoError(t, wallet.Credit(userID, amount, models.TxSale, "Sold: Enchanted Blade"))
	require.NoError(t, wallet.Debit(userID, amount, models.TxPurchase, "Purchased: Enchanted Blade"))

	end, err := wallet.GetBalance(userID)
	require.NoError(t, err)
	assert.True(t, end.Equal(start), "balance after credit+debit = %s, want %s", end, start)

	history, err := wallet.TransactionHistory(userID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// One positive and one negative row of the same magnitude, net zero.
	sum := history[0].Amount.Add(history[1].Amount)
	assert.True(t, sum.Equal(decimal.Zero), "ledger rows sum to %s, want 0", sum)
	assert.True(t, history[0].Amount.Abs().Equal(amount))
	assert.True(t, history[1].Amount.Abs().Equal(amount))
}

func TestFractionalCreditsStayExact(t *testing.T) {
	db := testDB(t)
	wallet := NewWalletService(db)
	userID := uuid.NewString()

	tenth := decimal.RequireFromString("0.1")
	for i := 0; i < 10; i++ {
		require.NoError(t, wallet.Credit(userID, tenth, models.TxAdReward, "Watched sponsored banner"))
	}

	balance, err := wallet.GetBalance(userID)
	require.NoError(t, err)
	want := models.StartingBalance.Add(decimal.NewFromInt(1))
	require.True(t, balance.Equal(want), "balance = %s, want %s", balance, want)

	// Ten 0.1 credits must cover a 1.0 debit with nothing left over.
	require.NoError(t, wallet.Debit(userID, decimal.NewFromInt(1), models.TxPurchase, "Purchased: Minor Potion"))

	balance, err = wallet.GetBalance(userID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(models.StartingBalance), "balance = %s, want %s", balance, models.StartingBalance)
}

func TestConcurrentDebitsSingleWinner(t *testing.T) {
	db := testDB(t)
	wallet := NewWalletService(db)
	userID := uuid.NewString()

	_, err := wallet.GetOrCreateWallet(userID)
	require.NoError(t, err)

	amount := decimal.NewFromInt(600)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = wallet.Debit(userID, amount, models.TxMysteryBox, "Opened: Gold Mystery Box")
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			assert.True(t, errors.HasCode(err, errors.ErrCodeInsufficientFunds), "unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, failures, "exactly one of two 600 debits against 1000 must fail")

	balance, err := wallet.GetBalance(userID)
	require.NoError(t, err)
	want := models.StartingBalance.Sub(amount)
	assert.True(t, balance.Equal(want), "balance = %s, want %s", balance, want)
}

func TestConcurrentFirstCreditsCreateOneWallet(t *testing.T) {
	db := testDB(t)
	wallet := NewWalletService(db)
	userID := uuid.NewString()

	amount := decimal.NewFromInt(10)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = wallet.Credit(userID, amount, models.TxAdReward, "Watched sponsored banner")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "credit %d failed on first wallet touch", i)
	}

	var count int64
	require.NoError(t, db.Model(&models.UserWallet{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	balance, err := wallet.GetBalance(userID)
	require.NoError(t, err)
	want := models.StartingBalance.Add(amount).Add(amount)
	assert.True(t, balance.Equal(want), "balance = %s, want %s", balance, want)
}
