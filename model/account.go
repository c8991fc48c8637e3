// model/account.go
package model

import "time"

// Account is the per-user ledger head. Balance is integer cents and only the
// account service mutates it, always inside a DB transaction.
type Account struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

type TransactionType string

const (
	TxCredit TransactionType = "credit"
	TxDebit  TransactionType = "debit"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
)

type PayoutMethod string

const (
	PayoutFiat   PayoutMethod = "fiat"
	PayoutCrypto PayoutMethod = "crypto"
)

// PayoutDetails snapshots a withdrawal destination at request time.
type PayoutDetails struct {
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	Symbol        string `json:"symbol,omitempty"`
	Network       string `json:"network,omitempty"`
}

// Transaction is a ledger entry. Immutable once status is terminal.
type Transaction struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"user_id"`
	Type          TransactionType   `json:"type"`
	Amount        int64             `json:"amount"`
	Description   string            `json:"description"`
	Status        TransactionStatus `json:"status"`
	CompletedBy   *int64            `json:"completed_by,omitempty"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	PaymentMethod *PayoutMethod     `json:"payment_method,omitempty"`
	Payout        PayoutDetails     `json:"payout,omitempty"`
	OrderID       *int64            `json:"order_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// WithdrawalProfile is a saved payout destination on an account.
type WithdrawalProfile struct {
	ID        int64         `json:"id"`
	AccountID int64         `json:"account_id"`
	Method    PayoutMethod  `json:"method"`
	Details   PayoutDetails `json:"details"`
	CreatedAt time.Time     `json:"created_at"`
}
