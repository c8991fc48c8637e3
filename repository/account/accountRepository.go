package accountrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/ojimcy/mcgp-api/model"
)

type Repo interface {
	Create(ctx context.Context, tx *sql.Tx, userID int64) (int64, error)
	ByUser(ctx context.Context, userID int64) (*model.Account, error)
	ByUserForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (*model.Account, error)
	LockByUsers(ctx context.Context, tx *sql.Tx, userIDs []int64) ([]model.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, accountID, newBalance int64) error

	InsertTransaction(ctx context.Context, tx *sql.Tx, t *model.Transaction) error
	InsertTransactionsBatch(ctx context.Context, tx *sql.Tx, ts []model.Transaction) error
	TransactionForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error)
	SetTransactionResult(ctx context.Context, tx *sql.Tx, id int64, status model.TransactionStatus, completedBy int64, at time.Time) error
	ListTransactions(ctx context.Context, userID int64) ([]model.Transaction, error)

	ListProfiles(ctx context.Context, accountID int64) ([]model.WithdrawalProfile, error)
	ReplaceProfiles(ctx context.Context, tx *sql.Tx, accountID int64, profiles []model.WithdrawalProfile) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	const q = `
INSERT INTO accounts (user_id, balance)
VALUES ($1, 0)
RETURNING id`
	var id int64
	if err := tx.QueryRowContext(ctx, q, userID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) ByUser(ctx context.Context, userID int64) (*model.Account, error) {
	const q = `
SELECT id, user_id, balance, created_at
FROM accounts
WHERE user_id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, q, userID))
}

func (r *repo) ByUserForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (*model.Account, error) {
	const q = `
SELECT id, user_id, balance, created_at
FROM accounts
WHERE user_id = $1
FOR UPDATE`
	return scanAccount(tx.QueryRowContext(ctx, q, userID))
}

// LockByUsers loads every listed account in one query, row-locked, in
// ascending user order so concurrent settlements acquire locks in the same
// sequence.
func (r *repo) LockByUsers(ctx context.Context, tx *sql.Tx, userIDs []int64) ([]model.Account, error) {
	const q = `
SELECT id, user_id, balance, created_at
FROM accounts
WHERE user_id = ANY($1)
ORDER BY user_id
FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Balance, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repo) UpdateBalance(ctx context.Context, tx *sql.Tx, accountID, newBalance int64) error {
	const q = `UPDATE accounts SET balance = $2 WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, accountID, newBalance)
	return err
}

func (r *repo) InsertTransaction(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	const q = `
INSERT INTO transactions
  (user_id, type, amount, description, status, payment_method,
   account_name, account_number, bank_name, wallet_address, symbol, network, order_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
RETURNING id, created_at`
	p := t.Payout
	return tx.QueryRowContext(ctx, q,
		t.UserID, t.Type, t.Amount, t.Description, t.Status, t.PaymentMethod,
		p.AccountName, p.AccountNumber, p.BankName, p.WalletAddress, p.Symbol, p.Network,
		t.OrderID,
	).Scan(&t.ID, &t.CreatedAt)
}

// InsertTransactionsBatch writes all settlement entries in one statement.
func (r *repo) InsertTransactionsBatch(ctx context.Context, tx *sql.Tx, ts []model.Transaction) error {
	if len(ts) == 0 {
		return nil
	}
	const q = `
INSERT INTO transactions (user_id, type, amount, description, status, order_id)
SELECT unnest($1::bigint[]), unnest($2::text[]), unnest($3::bigint[]),
       unnest($4::text[]), unnest($5::text[]), NULLIF(unnest($6::bigint[]), 0)`
	users := make([]int64, len(ts))
	types := make([]string, len(ts))
	amounts := make([]int64, len(ts))
	descs := make([]string, len(ts))
	statuses := make([]string, len(ts))
	orders := make([]int64, len(ts))
	for i, t := range ts {
		users[i] = t.UserID
		types[i] = string(t.Type)
		amounts[i] = t.Amount
		descs[i] = t.Description
		statuses[i] = string(t.Status)
		if t.OrderID != nil {
			orders[i] = *t.OrderID
		}
	}
	_, err := tx.ExecContext(ctx, q, users, types, amounts, descs, statuses, orders)
	return err
}

func (r *repo) TransactionForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error) {
	const q = `
SELECT id, user_id, type, amount, description, status, completed_by, completed_at,
       payment_method, account_name, account_number, bank_name, wallet_address, symbol, network,
       order_id, created_at
FROM transactions
WHERE id = $1
FOR UPDATE`
	var t model.Transaction
	var p payoutCols
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Description, &t.Status,
		&t.CompletedBy, &t.CompletedAt, &t.PaymentMethod,
		&p.accountName, &p.accountNumber, &p.bankName, &p.walletAddress, &p.symbol, &p.network,
		&t.OrderID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Payout = p.details()
	return &t, nil
}

func (r *repo) SetTransactionResult(ctx context.Context, tx *sql.Tx, id int64, status model.TransactionStatus, completedBy int64, at time.Time) error {
	const q = `
UPDATE transactions
SET status = $2, completed_by = $3, completed_at = $4
WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, status, completedBy, at)
	return err
}

func (r *repo) ListTransactions(ctx context.Context, userID int64) ([]model.Transaction, error) {
	const q = `
SELECT id, user_id, type, amount, description, status, completed_by, completed_at,
       payment_method, account_name, account_number, bank_name, wallet_address, symbol, network,
       order_id, created_at
FROM transactions
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var p payoutCols
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Description, &t.Status,
			&t.CompletedBy, &t.CompletedAt, &t.PaymentMethod,
			&p.accountName, &p.accountNumber, &p.bankName, &p.walletAddress, &p.symbol, &p.network,
			&t.OrderID, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Payout = p.details()
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repo) ListProfiles(ctx context.Context, accountID int64) ([]model.WithdrawalProfile, error) {
	const q = `
SELECT id, account_id, method, account_name, account_number, bank_name,
       wallet_address, symbol, network, created_at
FROM withdrawal_profiles
WHERE account_id = $1
ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WithdrawalProfile
	for rows.Next() {
		var w model.WithdrawalProfile
		var p payoutCols
		if err := rows.Scan(&w.ID, &w.AccountID, &w.Method,
			&p.accountName, &p.accountNumber, &p.bankName,
			&p.walletAddress, &p.symbol, &p.network, &w.CreatedAt); err != nil {
			return nil, err
		}
		w.Details = p.details()
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *repo) ReplaceProfiles(ctx context.Context, tx *sql.Tx, accountID int64, profiles []model.WithdrawalProfile) error {
	const del = `DELETE FROM withdrawal_profiles WHERE account_id = $1`
	if _, err := tx.ExecContext(ctx, del, accountID); err != nil {
		return err
	}
	const ins = `
INSERT INTO withdrawal_profiles
  (account_id, method, account_name, account_number, bank_name, wallet_address, symbol, network)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	for _, w := range profiles {
		d := w.Details
		if _, err := tx.ExecContext(ctx, ins, accountID, w.Method,
			d.AccountName, d.AccountNumber, d.BankName,
			d.WalletAddress, d.Symbol, d.Network); err != nil {
			return err
		}
	}
	return nil
}

// payoutCols maps the nullable destination columns.
type payoutCols struct {
	accountName, accountNumber, bankName sql.NullString
	walletAddress, symbol, network       sql.NullString
}

func (p payoutCols) details() model.PayoutDetails {
	return model.PayoutDetails{
		AccountName:   p.accountName.String,
		AccountNumber: p.accountNumber.String,
		BankName:      p.bankName.String,
		WalletAddress: p.walletAddress.String,
		Symbol:        p.symbol.String,
		Network:       p.network.String,
	}
}

func scanAccount(row *sql.Row) (*model.Account, error) {
	var a model.Account
	if err := row.Scan(&a.ID, &a.UserID, &a.Balance, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
