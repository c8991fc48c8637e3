package ordersvc

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/ojimcy/mcgp-api/model"
	advertrepo "github.com/ojimcy/mcgp-api/repository/advert"
	cartrepo "github.com/ojimcy/mcgp-api/repository/cart"
	eventsrepo "github.com/ojimcy/mcgp-api/repository/events"
	orderrepo "github.com/ojimcy/mcgp-api/repository/order"
	"github.com/ojimcy/mcgp-api/util/apperr"
)

type CreateOrderInput struct {
	DeliveryAddress model.DeliveryAddress
	PaymentMethod   model.PaymentMethod
}

type Service interface {
	Create(ctx context.Context, buyerID int64, in CreateOrderInput) (*model.Order, error)
	Get(ctx context.Context, id int64) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	Release(ctx context.Context, sellerID, orderID int64) error
	Complete(ctx context.Context, orderID int64) error
}

type service struct {
	db     *sql.DB
	orders orderrepo.Repo
	carts  cartrepo.Repo
	ads    advertrepo.Repo
	events eventsrepo.Producer
}

func New(db *sql.DB, orders orderrepo.Repo, carts cartrepo.Repo, ads advertrepo.Repo, events eventsrepo.Producer) Service {
	return &service{db: db, orders: orders, carts: carts, ads: ads, events: events}
}

// Create snapshots the buyer's cart into a priced multi-seller order. Every
// advert is re-resolved inside the transaction so the price and seller are
// locked in at checkout time, not at add-to-cart time. If any line fails,
// nothing is persisted and the cart is untouched.
func (s *service) Create(ctx context.Context, buyerID int64, in CreateOrderInput) (o *model.Order, err error) {
	if in.PaymentMethod != model.PayBankTransfer && in.PaymentMethod != model.PayCrypto {
		return nil, apperr.E(apperr.InvalidArgument, "invalid payment method")
	}

	lines, err := s.carts.List(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperr.E(apperr.InvalidState, "cart is empty")
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

	items := make([]model.OrderItem, 0, len(lines))
	var total int64
	for _, line := range lines {
		ad, aerr := s.ads.ByIDTx(ctx, tx, line.AdvertID)
		if aerr != nil {
			if errors.Is(aerr, sql.ErrNoRows) {
				err = apperr.E(apperr.NotFound, "advert not found")
				return nil, err
			}
			err = aerr
			return nil, err
		}
		if ad.Status != model.AdvertApproved {
			err = apperr.E(apperr.NotFound, "advert not found")
			return nil, err
		}
		lineTotal := ad.Price * line.Quantity
		items = append(items, model.OrderItem{
			AdvertID: ad.ID,
			SellerID: ad.CreatedBy,
			Quantity: line.Quantity,
			Price:    lineTotal,
		})
		total += lineTotal
	}

	o = &model.Order{
		BuyerID:         buyerID,
		Amount:          total,
		DeliveryAddress: in.DeliveryAddress,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   model.PaymentPending,
		Status:          model.OrderPending,
	}
	if err = s.orders.Insert(ctx, tx, o); err != nil {
		return nil, err
	}
	if err = s.orders.InsertItems(ctx, tx, o.ID, items); err != nil {
		return nil, err
	}
	if err = s.carts.DeleteAllTx(ctx, tx, buyerID); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	o.Items = items

	if perr := s.events.Publish(ctx, eventsrepo.TopicOrderCreated, o.ID, o); perr != nil {
		slog.Warn("order created event not published", "order_id", o.ID, "err", perr)
	}
	return o, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Order, error) {
	o, err := s.orders.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, "order not found")
		}
		return nil, err
	}
	return o, nil
}

func (s *service) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	return s.orders.ListByBuyer(ctx, buyerID)
}

func (s *service) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.orders.ListAll(ctx)
}

// Release marks the calling seller's lines released. The order-level status
// flips to Released only when every line of every seller is released.
func (s *service) Release(ctx context.Context, sellerID, orderID int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	o, err := s.orders.ForUpdate(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.E(apperr.NotFound, "order not found")
		}
		return err
	}
	if o.PaymentStatus != model.PaymentCompleted {
		return apperr.E(apperr.InvalidState, "payment has not been settled")
	}

	n, err := s.orders.ReleaseSellerItems(ctx, tx, orderID, sellerID, time.Now().UTC())
	if err != nil {
		return err
	}
	if n == 0 {
		owned, cerr := s.orders.CountSellerItems(ctx, tx, orderID, sellerID)
		if cerr != nil {
			return cerr
		}
		if owned == 0 {
			return apperr.E(apperr.Forbidden, "you are not a seller on this order")
		}
		return apperr.E(apperr.InvalidState, "items already released")
	}

	left, err := s.orders.CountUnreleased(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if left == 0 {
		if err = s.orders.SetStatus(ctx, tx, orderID, model.OrderReleased); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Complete finishes an order; it must already be fully released.
func (s *service) Complete(ctx context.Context, orderID int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	o, err := s.orders.ForUpdate(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.E(apperr.NotFound, "order not found")
		}
		return err
	}
	if o.Status != model.OrderReleased {
		return apperr.E(apperr.InvalidState, "order must be released before it can be completed")
	}
	if err = s.orders.SetStatus(ctx, tx, orderID, model.OrderCompleted); err != nil {
		return err
	}
	return tx.Commit()
}
