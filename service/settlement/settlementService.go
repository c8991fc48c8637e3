// Package settlementsvc reconciles an order's payment against every seller's
// ledger account in one database transaction.
package settlementsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ojimcy/mcgp-api/model"
	accountrepo "github.com/ojimcy/mcgp-api/repository/account"
	eventsrepo "github.com/ojimcy/mcgp-api/repository/events"
	orderrepo "github.com/ojimcy/mcgp-api/repository/order"
	"github.com/ojimcy/mcgp-api/util/apperr"
)

type Service interface {
	// AcknowledgePayment confirms (or denies) receipt of the buyer's payment
	// and distributes the order amount to seller accounts atomically.
	AcknowledgePayment(ctx context.Context, orderID int64, received bool) (*model.Order, error)
}

type service struct {
	db       *sql.DB
	orders   orderrepo.Repo
	accounts accountrepo.Repo
	events   eventsrepo.Producer
}

func New(db *sql.DB, orders orderrepo.Repo, accounts accountrepo.Repo, events eventsrepo.Producer) Service {
	return &service{db: db, orders: orders, accounts: accounts, events: events}
}

func (s *service) AcknowledgePayment(ctx context.Context, orderID int64, received bool) (o *model.Order, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	o, err = s.orders.ForUpdate(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = apperr.E(apperr.NotFound, "order not found")
		}
		return nil, err
	}
	// Settlement runs at most once per order.
	if o.PaymentStatus != model.PaymentPending {
		err = apperr.E(apperr.InvalidState, "order payment already settled")
		return nil, err
	}

	items, err := s.orders.Items(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	// One locked read for all seller accounts, ordered, so concurrent
	// settlements over overlapping sellers serialize without deadlocking.
	sellerIDs := distinctSellers(items)
	accounts, err := s.accounts.LockByUsers(ctx, tx, sellerIDs)
	if err != nil {
		return nil, err
	}
	byUser := make(map[int64]*model.Account, len(accounts))
	for i := range accounts {
		byUser[accounts[i].UserID] = &accounts[i]
	}

	status := model.TxCompleted
	if !received {
		status = model.TxFailed
	}

	entries := make([]model.Transaction, 0, len(items))
	for _, it := range items {
		acct, ok := byUser[it.SellerID]
		if !ok {
			err = apperr.E(apperr.NotFound, fmt.Sprintf("account not found for seller %d", it.SellerID))
			return nil, err
		}
		oid := orderID
		entries = append(entries, model.Transaction{
			UserID:      it.SellerID,
			Type:        model.TxCredit,
			Amount:      it.Price,
			Description: fmt.Sprintf("Sale proceeds for order #%d", orderID),
			Status:      status,
			OrderID:     &oid,
		})
		if received {
			acct.Balance += it.Price
		}
	}

	if err = s.accounts.InsertTransactionsBatch(ctx, tx, entries); err != nil {
		return nil, err
	}
	if received {
		for _, acct := range accounts {
			if err = s.accounts.UpdateBalance(ctx, tx, acct.ID, acct.Balance); err != nil {
				return nil, err
			}
		}
	}

	o.PaymentStatus = model.PaymentCompleted
	if !received {
		o.PaymentStatus = model.PaymentFailed
	}
	if err = s.orders.SetPaymentStatus(ctx, tx, orderID, o.PaymentStatus); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	o.Items = items

	if perr := s.events.Publish(ctx, eventsrepo.TopicOrderSettled, orderID, o); perr != nil {
		slog.Warn("order settled event not published", "order_id", orderID, "err", perr)
	}
	return o, nil
}

func distinctSellers(items []model.OrderItem) []int64 {
	seen := make(map[int64]struct{}, len(items))
	out := make([]int64, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.SellerID]; ok {
			continue
		}
		seen[it.SellerID] = struct{}{}
		out = append(out, it.SellerID)
	}
	return out
}
