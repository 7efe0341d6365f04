package services_test

import (
	"testing"

	"shop/internal/models"
	"shop/internal/repositories"
	"shop/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newWalletFixture(t *testing.T, userID string, balance decimal.Decimal) (*services.WalletService, *repositories.MockWalletRepository) {
	t.Helper()
	repo := repositories.NewMockWalletRepository()
	service := services.NewWalletService(repo)
	assert.NoError(t, service.CreateForUser(userID))
	if balance.IsPositive() {
		_, err := service.Credit(userID, balance, "TOP_UP", "")
		assert.NoError(t, err)
	}
	return service, repo
}

func TestWalletService_CreateForUserStartsAtZero(t *testing.T) {
	service, _ := newWalletFixture(t, "user-1", decimal.Zero)

	wallet, err := service.Balance("user-1")

	assert.NoError(t, err)
	assert.True(t, wallet.Balance.IsZero(), "balance = %s", wallet.Balance)
}

func TestWalletService_CreditIncreasesBalanceAndAppendsLedger(t *testing.T) {
	service, _ := newWalletFixture(t, "user-1", decimal.Zero)

	entry, err := service.Credit("user-1", d(10000), "TOP_UP", "")

	assert.NoError(t, err)
	assert.Equal(t, models.WalletTxCredit, entry.Kind)
	assert.Equal(t, models.WalletTxSuccess, entry.Status)
	assert.True(t, entry.Amount.Equal(d(10000)))

	wallet, err := service.Balance("user-1")
	assert.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(d(10000)), "balance = %s", wallet.Balance)
}

func TestWalletService_DebitWithSufficientFunds(t *testing.T) {
	service, _ := newWalletFixture(t, "user-1", d(20000))

	entry, err := service.Debit("user-1", d(15000), "ORDER_PAYMENT", "")

	assert.NoError(t, err)
	assert.Equal(t, models.WalletTxDebit, entry.Kind)
	assert.Equal(t, models.WalletTxSuccess, entry.Status)

	wallet, err := service.Balance("user-1")
	assert.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(d(5000)), "balance = %s", wallet.Balance)
}

func TestWalletService_DebitInsufficientFundsIsNotAnError(t *testing.T) {
	service, _ := newWalletFixture(t, "user-1", d(10000))

	entry, err := service.Debit("user-1", d(15000), "ORDER_PAYMENT", "")

	// The attempt is recorded, not rejected.
	assert.NoError(t, err)
	assert.Equal(t, models.WalletTxDebit, entry.Kind)
	assert.Equal(t, models.WalletTxFailed, entry.Status)
	assert.Equal(t, models.WalletReasonInsufficientFunds, entry.Reason)
	assert.True(t, entry.Amount.Equal(d(15000)))

	// The balance must be untouched.
	wallet, err := service.Balance("user-1")
	assert.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(d(10000)), "balance = %s", wallet.Balance)

	// The failed attempt is part of the ledger history.
	entries, err := service.Transactions("user-1")
	assert.NoError(t, err)
	assert.Len(t, entries, 2) // the top-up and the failed debit
	assert.Equal(t, models.WalletTxFailed, entries[0].Status)
}

func TestWalletService_RejectsNonPositiveAmounts(t *testing.T) {
	service, _ := newWalletFixture(t, "user-1", d(10000))

	_, err := service.Credit("user-1", decimal.Zero, "TOP_UP", "")
	assert.Error(t, err)

	_, err = service.Debit("user-1", d(-100), "ORDER_PAYMENT", "")
	assert.Error(t, err)

	wallet, err := service.Balance("user-1")
	assert.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(d(10000)))
}

func TestWalletService_MissingWallet(t *testing.T) {
	service := services.NewWalletService(repositories.NewMockWalletRepository())

	_, err := service.Balance("nobody")
	assert.ErrorIs(t, err, services.ErrWalletNotFound)

	_, err = service.Debit("nobody", d(100), "ORDER_PAYMENT", "")
	assert.ErrorIs(t, err, services.ErrWalletNotFound)
}
