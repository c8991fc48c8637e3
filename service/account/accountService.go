// Package accountsvc owns the ledger: balances, transactions, withdrawals.
// Nothing else mutates a balance.
package accountsvc

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/ojimcy/mcgp-api/model"
	accountrepo "github.com/ojimcy/mcgp-api/repository/account"
	eventsrepo "github.com/ojimcy/mcgp-api/repository/events"
	"github.com/ojimcy/mcgp-api/util/apperr"
)

type WithdrawalInput struct {
	Method  model.PayoutMethod
	Details model.PayoutDetails
	Amount  int64
}

type Service interface {
	Get(ctx context.Context, userID int64) (*model.Account, []model.WithdrawalProfile, error)
	Ledger(ctx context.Context, userID int64) ([]model.Transaction, error)

	// RequestWithdrawal reserves funds by debiting the balance immediately.
	RequestWithdrawal(ctx context.Context, userID int64, in WithdrawalInput) (*model.Transaction, error)
	// CompleteWithdrawal finalizes a pending request; a failed request
	// credits the reserved amount back.
	CompleteWithdrawal(ctx context.Context, adminID, transactionID int64, completed bool) (*model.Transaction, error)

	UpdateWithdrawalDetails(ctx context.Context, userID int64, profiles []model.WithdrawalProfile) error
}

type service struct {
	db     *sql.DB
	r      accountrepo.Repo
	events eventsrepo.Producer
}

func New(db *sql.DB, r accountrepo.Repo, events eventsrepo.Producer) Service {
	return &service{db: db, r: r, events: events}
}

func (s *service) Get(ctx context.Context, userID int64) (*model.Account, []model.WithdrawalProfile, error) {
	acct, err := s.r.ByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, apperr.E(apperr.NotFound, "account not found")
		}
		return nil, nil, err
	}
	profiles, err := s.r.ListProfiles(ctx, acct.ID)
	if err != nil {
		return nil, nil, err
	}
	return acct, profiles, nil
}

func (s *service) Ledger(ctx context.Context, userID int64) ([]model.Transaction, error) {
	return s.r.ListTransactions(ctx, userID)
}

func (s *service) RequestWithdrawal(ctx context.Context, userID int64, in WithdrawalInput) (t *model.Transaction, err error) {
	if in.Amount <= 0 {
		return nil, apperr.E(apperr.InvalidArgument, "amount must be a positive number")
	}
	switch in.Method {
	case model.PayoutFiat:
		if in.Details.AccountNumber == "" || in.Details.BankName == "" {
			return nil, apperr.E(apperr.InvalidArgument, "bank account details are required")
		}
	case model.PayoutCrypto:
		if in.Details.WalletAddress == "" {
			return nil, apperr.E(apperr.InvalidArgument, "wallet address is required")
		}
	default:
		return nil, apperr.E(apperr.InvalidArgument, "invalid payout method")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	acct, err := s.r.ByUserForUpdate(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = apperr.E(apperr.NotFound, "account not found")
		}
		return nil, err
	}
	if acct.Balance < in.Amount {
		err = apperr.E(apperr.InvalidArgument, "insufficient balance")
		return nil, err
	}

	// Reserve: debit now so the same funds cannot be withdrawn twice while
	// the request waits for an admin.
	if err = s.r.UpdateBalance(ctx, tx, acct.ID, acct.Balance-in.Amount); err != nil {
		return nil, err
	}

	method := in.Method
	t = &model.Transaction{
		UserID:        userID,
		Type:          model.TxDebit,
		Amount:        in.Amount,
		Description:   "Withdrawal request",
		Status:        model.TxPending,
		PaymentMethod: &method,
		Payout:        in.Details,
	}
	if err = s.r.InsertTransaction(ctx, tx, t); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	if perr := s.events.Publish(ctx, eventsrepo.TopicWithdrawalRequested, t.ID, t); perr != nil {
		slog.Warn("withdrawal requested event not published", "transaction_id", t.ID, "err", perr)
	}
	return t, nil
}

func (s *service) CompleteWithdrawal(ctx context.Context, adminID, transactionID int64, completed bool) (t *model.Transaction, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	t, err = s.r.TransactionForUpdate(ctx, tx, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = apperr.E(apperr.NotFound, "transaction not found")
		}
		return nil, err
	}
	if t.Status != model.TxPending {
		err = apperr.E(apperr.InvalidState, "no pending withdrawal")
		return nil, err
	}

	now := time.Now().UTC()
	status := model.TxCompleted
	if !completed {
		status = model.TxFailed
	}
	if err = s.r.SetTransactionResult(ctx, tx, transactionID, status, adminID, now); err != nil {
		return nil, err
	}

	if !completed {
		// The reservation is reversed; completed requests already debited
		// the balance at request time.
		acct, aerr := s.r.ByUserForUpdate(ctx, tx, t.UserID)
		if aerr != nil {
			if errors.Is(aerr, sql.ErrNoRows) {
				aerr = apperr.E(apperr.NotFound, "account not found")
			}
			err = aerr
			return nil, err
		}
		if err = s.r.UpdateBalance(ctx, tx, acct.ID, acct.Balance+t.Amount); err != nil {
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	t.Status = status
	t.CompletedBy = &adminID
	t.CompletedAt = &now

	if perr := s.events.Publish(ctx, eventsrepo.TopicWithdrawalCompleted, t.ID, t); perr != nil {
		slog.Warn("withdrawal completed event not published", "transaction_id", t.ID, "err", perr)
	}
	return t, nil
}

func (s *service) UpdateWithdrawalDetails(ctx context.Context, userID int64, profiles []model.WithdrawalProfile) (err error) {
	for _, p := range profiles {
		if p.Method != model.PayoutFiat && p.Method != model.PayoutCrypto {
			return apperr.E(apperr.InvalidArgument, "invalid payout method")
		}
	}

	acct, err := s.r.ByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.E(apperr.NotFound, "account not found")
		}
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.r.ReplaceProfiles(ctx, tx, acct.ID, profiles); err != nil {
		return err
	}
	return tx.Commit()
}
