package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"shop/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMWalletRepository is a GORM implementation of WalletRepository.
type GORMWalletRepository struct {
	db *gorm.DB
}

// NewGORMWalletRepository creates a new instance of GORMWalletRepository.
func NewGORMWalletRepository(db *gorm.DB) *GORMWalletRepository {
	return &GORMWalletRepository{
		db: db,
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *GORMWalletRepository) WithTx(tx *gorm.DB) WalletRepository {
	if tx == nil {
		return r
	}
	return &GORMWalletRepository{db: tx}
}

// Create creates a new wallet row.
func (r *GORMWalletRepository) Create(wallet *models.Wallet) error {
	if wallet.ID == "" {
		wallet.ID = uuid.New().String()
	}
	if err := r.db.Create(wallet).Error; err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

// GetByUserID retrieves the wallet owned by the user.
func (r *GORMWalletRepository) GetByUserID(userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.First(&wallet, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("wallet for user %s not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get wallet for user %s: %w", userID, err)
	}
	return &wallet, nil
}

// lockedWallet loads the user's wallet with the balance row locked for the
// duration of the surrounding transaction. SQLite serializes writers on its
// own and rejects FOR UPDATE, so the clause is skipped there.
func lockedWallet(tx *gorm.DB, userID string) (*models.Wallet, error) {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var wallet models.Wallet
	if err := q.First(&wallet, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("wallet for user %s not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock wallet for user %s: %w", userID, err)
	}
	return &wallet, nil
}

// Credit adds amount to the balance and appends a CREDIT/SUCCESS ledger row,
// all inside one transaction over the locked balance row.
func (r *GORMWalletRepository) Credit(userID string, amount decimal.Decimal, reason, meta, orderID string) (*models.WalletTransaction, error) {
	var entry *models.WalletTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := lockedWallet(tx, userID)
		if err != nil {
			return err
		}

		wallet.Balance = wallet.Balance.Add(amount)
		if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
			Update("balance", wallet.Balance).Error; err != nil {
			return fmt.Errorf("failed to persist credited balance: %w", err)
		}

		entry = &models.WalletTransaction{
			ID:      uuid.New().String(),
			UserID:  userID,
			Kind:    models.WalletTxCredit,
			Amount:  amount,
			Status:  models.WalletTxSuccess,
			Reason:  reason,
			Meta:    meta,
			OrderID: orderID,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append credit ledger row: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Debit subtracts amount from the balance when covered. An insufficient
// balance is recorded as a DEBIT/FAILED ledger row and returned without an
// error; the balance is never driven negative.
func (r *GORMWalletRepository) Debit(userID string, amount decimal.Decimal, reason, meta, orderID string) (*models.WalletTransaction, error) {
	var entry *models.WalletTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := lockedWallet(tx, userID)
		if err != nil {
			return err
		}

		if wallet.Balance.LessThan(amount) {
			entry = &models.WalletTransaction{
				ID:      uuid.New().String(),
				UserID:  userID,
				Kind:    models.WalletTxDebit,
				Amount:  amount,
				Status:  models.WalletTxFailed,
				Reason:  models.WalletReasonInsufficientFunds,
				Meta:    failedDebitMeta(reason, meta),
				OrderID: orderID,
			}
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("failed to append failed-debit ledger row: %w", err)
			}
			return nil
		}

		wallet.Balance = wallet.Balance.Sub(amount)
		if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
			Update("balance", wallet.Balance).Error; err != nil {
			return fmt.Errorf("failed to persist debited balance: %w", err)
		}

		entry = &models.WalletTransaction{
			ID:      uuid.New().String(),
			UserID:  userID,
			Kind:    models.WalletTxDebit,
			Amount:  amount,
			Status:  models.WalletTxSuccess,
			Reason:  reason,
			Meta:    meta,
			OrderID: orderID,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append debit ledger row: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Transactions returns the user's ledger rows, newest first.
func (r *GORMWalletRepository) Transactions(userID string) ([]models.WalletTransaction, error) {
	var entries []models.WalletTransaction
	err := r.db.Order("created_at DESC").Find(&entries, "user_id = ?", userID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions for user %s: %w", userID, err)
	}
	return entries, nil
}

// failedDebitMeta preserves the originally requested reason on a failed
// debit, whose Reason field is overwritten with INSUFFICIENT_FUNDS.
func failedDebitMeta(requestedReason, meta string) string {
	payload, err := json.Marshal(map[string]string{
		"requested_reason": requestedReason,
		"meta":             meta,
	})
	if err != nil {
		return meta
	}
	return string(payload)
}
