package services

import (
	"errors"
	"fmt"

	"shop/internal/models"
	"shop/internal/repositories"

	"github.com/shopspring/decimal"
)

// WalletService handles business logic for wallets and their ledger. All
// balance changes go through Credit and Debit; nothing else may mutate a
// balance.
type WalletService struct {
	walletRepo repositories.WalletRepository
}

// NewWalletService creates a new WalletService.
func NewWalletService(walletRepo repositories.WalletRepository) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
	}
}

// CreateForUser creates the user's wallet with a zero balance. Called once,
// at registration.
func (s *WalletService) CreateForUser(userID string) error {
	return s.walletRepo.Create(&models.Wallet{
		UserID:  userID,
		Balance: decimal.Zero,
	})
}

// Balance returns the user's wallet.
func (s *WalletService) Balance(userID string) (*models.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return wallet, nil
}

// Credit adds a positive amount to the user's balance and records a
// CREDIT/SUCCESS ledger entry.
func (s *WalletService) Credit(userID string, amount decimal.Decimal, reason, meta string) (*models.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("credit amount must be positive, got %s", amount)
	}
	entry, err := s.walletRepo.Credit(userID, amount, reason, meta, "")
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return entry, nil
}

// Debit subtracts a positive amount from the user's balance. An insufficient
// balance is not an error: the returned entry has status FAILED and the
// balance is untouched. Callers must inspect the entry's status.
func (s *WalletService) Debit(userID string, amount decimal.Decimal, reason, meta string) (*models.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("debit amount must be positive, got %s", amount)
	}
	entry, err := s.walletRepo.Debit(userID, amount, reason, meta, "")
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return entry, nil
}

// Transactions returns the user's ledger history, newest first.
func (s *WalletService) Transactions(userID string) ([]models.WalletTransaction, error) {
	return s.walletRepo.Transactions(userID)
}
