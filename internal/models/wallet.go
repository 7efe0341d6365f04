package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet transaction kinds. Amounts are always stored as positive
// magnitudes; the kind carries the direction.
const (
	WalletTxCredit = "CREDIT"
	WalletTxDebit  = "DEBIT"
)

// Wallet transaction statuses.
const (
	WalletTxPending = "PENDING"
	WalletTxSuccess = "SUCCESS"
	WalletTxFailed  = "FAILED"
)

// WalletReasonInsufficientFunds is recorded on failed debit attempts.
const WalletReasonInsufficientFunds = "INSUFFICIENT_FUNDS"

// Wallet holds a user's balance. Exactly one wallet exists per user; it is
// created at registration with a zero balance. The balance never goes
// negative and is only mutated through the wallet repository's credit and
// debit operations.
type Wallet struct {
	ID      string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID  string          `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Balance decimal.Decimal `json:"balance" gorm:"type:decimal(12,2)"`
	gorm.Model
}

// WalletTransaction is an immutable ledger entry. Every balance mutation
// produces exactly one row, including failed debit attempts, which are kept
// with status FAILED for auditability.
type WalletTransaction struct {
	ID      string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID  string          `json:"user_id" gorm:"index;type:varchar(36)"`
	Kind    string          `json:"kind" gorm:"type:varchar(10)"`
	Amount  decimal.Decimal `json:"amount" gorm:"type:decimal(12,2)"`
	Status  string          `json:"status" gorm:"type:varchar(10)"`
	Reason  string          `json:"reason" gorm:"type:varchar(100)"`
	Meta    string          `json:"meta" gorm:"type:text"`
	OrderID string          `json:"order_id,omitempty" gorm:"index;type:varchar(36)"`
	gorm.Model
}
