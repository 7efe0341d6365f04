package repositories

import (
	"shop/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletRepository defines the interface for wallet and ledger data access.
// Credit and Debit are the only operations allowed to mutate a balance; each
// runs atomically and appends exactly one ledger row, failed attempts
// included.
type WalletRepository interface {
	// WithTx returns a repository bound to the given database transaction.
	WithTx(tx *gorm.DB) WalletRepository
	Create(wallet *models.Wallet) error
	GetByUserID(userID string) (*models.Wallet, error)
	// Credit adds amount to the user's balance and appends a CREDIT/SUCCESS
	// ledger row. No upper bound is enforced.
	Credit(userID string, amount decimal.Decimal, reason, meta, orderID string) (*models.WalletTransaction, error)
	// Debit subtracts amount from the user's balance if it is covered and
	// appends a DEBIT/SUCCESS row. If the balance is insufficient the balance
	// is left untouched and a DEBIT/FAILED row with reason INSUFFICIENT_FUNDS
	// is appended and returned — this is a normal outcome, not an error.
	Debit(userID string, amount decimal.Decimal, reason, meta, orderID string) (*models.WalletTransaction, error)
	// Transactions returns the user's ledger, newest first.
	Transactions(userID string) ([]models.WalletTransaction, error)
}
