package repositories

import (
	"fmt"
	"sync"

	"shop/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MockWalletRepository is an in-memory implementation of WalletRepository.
type MockWalletRepository struct {
	wallets map[string]models.Wallet // keyed by userID
	ledger  []models.WalletTransaction
	mu      sync.Mutex
}

// NewMockWalletRepository creates a new instance of MockWalletRepository.
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]models.Wallet),
	}
}

// WithTx is a no-op for the in-memory implementation.
func (r *MockWalletRepository) WithTx(_ *gorm.DB) WalletRepository {
	return r
}

// Create adds a new wallet.
func (r *MockWalletRepository) Create(wallet *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if wallet.ID == "" {
		wallet.ID = uuid.New().String()
	}
	r.wallets[wallet.UserID] = *wallet
	return nil
}

// GetByUserID returns the wallet owned by the user.
func (r *MockWalletRepository) GetByUserID(userID string) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet, ok := r.wallets[userID]
	if !ok {
		return nil, fmt.Errorf("wallet for user %s not found: %w", userID, ErrNotFound)
	}
	return &wallet, nil
}

// Credit adds amount to the balance under the repository lock.
func (r *MockWalletRepository) Credit(userID string, amount decimal.Decimal, reason, meta, orderID string) (*models.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet, ok := r.wallets[userID]
	if !ok {
		return nil, fmt.Errorf("wallet for user %s not found: %w", userID, ErrNotFound)
	}

	wallet.Balance = wallet.Balance.Add(amount)
	r.wallets[userID] = wallet

	entry := models.WalletTransaction{
		ID:      uuid.New().String(),
		UserID:  userID,
		Kind:    models.WalletTxCredit,
		Amount:  amount,
		Status:  models.WalletTxSuccess,
		Reason:  reason,
		Meta:    meta,
		OrderID: orderID,
	}
	r.ledger = append(r.ledger, entry)
	return &entry, nil
}

// Debit mirrors the GORM implementation: insufficient balance yields a
// FAILED ledger row, not an error, and never mutates the balance.
func (r *MockWalletRepository) Debit(userID string, amount decimal.Decimal, reason, meta, orderID string) (*models.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet, ok := r.wallets[userID]
	if !ok {
		return nil, fmt.Errorf("wallet for user %s not found: %w", userID, ErrNotFound)
	}

	if wallet.Balance.LessThan(amount) {
		entry := models.WalletTransaction{
			ID:      uuid.New().String(),
			UserID:  userID,
			Kind:    models.WalletTxDebit,
			Amount:  amount,
			Status:  models.WalletTxFailed,
			Reason:  models.WalletReasonInsufficientFunds,
			Meta:    failedDebitMeta(reason, meta),
			OrderID: orderID,
		}
		r.ledger = append(r.ledger, entry)
		return &entry, nil
	}

	wallet.Balance = wallet.Balance.Sub(amount)
	r.wallets[userID] = wallet

	entry := models.WalletTransaction{
		ID:      uuid.New().String(),
		UserID:  userID,
		Kind:    models.WalletTxDebit,
		Amount:  amount,
		Status:  models.WalletTxSuccess,
		Reason:  reason,
		Meta:    meta,
		OrderID: orderID,
	}
	r.ledger = append(r.ledger, entry)
	return &entry, nil
}

// Transactions returns the user's ledger rows, newest first.
func (r *MockWalletRepository) Transactions(userID string) ([]models.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []models.WalletTransaction
	for i := len(r.ledger) - 1; i >= 0; i-- {
		if r.ledger[i].UserID == userID {
			entries = append(entries, r.ledger[i])
		}
	}
	return entries, nil
}
