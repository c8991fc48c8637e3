package orderrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/ojimcy/mcgp-api/model"
)

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, o *model.Order) error
	InsertItems(ctx context.Context, tx *sql.Tx, orderID int64, items []model.OrderItem) error
	ByID(ctx context.Context, id int64) (*model.Order, error)
	ForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Order, error)
	Items(ctx context.Context, tx *sql.Tx, orderID int64) ([]model.OrderItem, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)

	SetPaymentProof(ctx context.Context, id int64, proofURL string, method model.PaymentMethod, paidAt time.Time) (int64, error)
	SetPaymentStatus(ctx context.Context, tx *sql.Tx, id int64, status model.PaymentStatus) error
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.OrderStatus) error
	ReleaseSellerItems(ctx context.Context, tx *sql.Tx, orderID, sellerID int64, at time.Time) (int64, error)
	CountSellerItems(ctx context.Context, tx *sql.Tx, orderID, sellerID int64) (int64, error)
	CountUnreleased(ctx context.Context, tx *sql.Tx, orderID int64) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `
INSERT INTO orders
  (buyer_id, amount, full_name, phone_number, address, city, state, payment_method, payment_status, status)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING id, created_at`
	a := o.DeliveryAddress
	return tx.QueryRowContext(ctx, q,
		o.BuyerID, o.Amount, a.FullName, a.PhoneNumber, a.Address, a.City, a.State,
		o.PaymentMethod, o.PaymentStatus, o.Status,
	).Scan(&o.ID, &o.CreatedAt)
}

// InsertItems writes all lines of an order in one statement.
func (r *repo) InsertItems(ctx context.Context, tx *sql.Tx, orderID int64, items []model.OrderItem) error {
	const q = `
INSERT INTO order_items (order_id, advert_id, seller_id, quantity, price)
SELECT $1, unnest($2::bigint[]), unnest($3::bigint[]), unnest($4::bigint[]), unnest($5::bigint[])`
	adverts := make([]int64, len(items))
	sellers := make([]int64, len(items))
	qtys := make([]int64, len(items))
	prices := make([]int64, len(items))
	for i, it := range items {
		adverts[i] = it.AdvertID
		sellers[i] = it.SellerID
		qtys[i] = it.Quantity
		prices[i] = it.Price
	}
	_, err := tx.ExecContext(ctx, q, orderID, adverts, sellers, qtys, prices)
	return err
}

const selectOrder = `
SELECT id, buyer_id, amount, full_name, phone_number, address, city, state,
       payment_method, payment_status, status, proof_url, is_paid, paid_at, created_at
FROM orders
WHERE id = $1`

func (r *repo) ByID(ctx context.Context, id int64) (*model.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder, id))
	if err != nil {
		return nil, err
	}
	items, err := r.itemRows(r.db.QueryContext(ctx, selectItems, id))
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *repo) ForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Order, error) {
	return scanOrder(tx.QueryRowContext(ctx, selectOrder+` FOR UPDATE`, id))
}

const selectItems = `
SELECT id, order_id, advert_id, seller_id, quantity, price, released, released_at
FROM order_items
WHERE order_id = $1
ORDER BY id`

func (r *repo) Items(ctx context.Context, tx *sql.Tx, orderID int64) ([]model.OrderItem, error) {
	return r.itemRows(tx.QueryContext(ctx, selectItems, orderID))
}

func (r *repo) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	const q = `
SELECT id, buyer_id, amount, full_name, phone_number, address, city, state,
       payment_method, payment_status, status, proof_url, is_paid, paid_at, created_at
FROM orders
WHERE buyer_id = $1
ORDER BY created_at DESC, id DESC`
	return r.orderRows(ctx, q, buyerID)
}

func (r *repo) ListAll(ctx context.Context) ([]model.Order, error) {
	const q = `
SELECT id, buyer_id, amount, full_name, phone_number, address, city, state,
       payment_method, payment_status, status, proof_url, is_paid, paid_at, created_at
FROM orders
ORDER BY created_at DESC, id DESC`
	return r.orderRows(ctx, q)
}

func (r *repo) SetPaymentProof(ctx context.Context, id int64, proofURL string, method model.PaymentMethod, paidAt time.Time) (int64, error) {
	const q = `
UPDATE orders
SET proof_url = $2, payment_method = $3, is_paid = TRUE, status = 'Paid', paid_at = $4
WHERE id = $1 AND status IN ('Pending','Paid')`
	res, err := r.db.ExecContext(ctx, q, id, proofURL, method, paidAt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) SetPaymentStatus(ctx context.Context, tx *sql.Tx, id int64, status model.PaymentStatus) error {
	const q = `UPDATE orders SET payment_status = $2 WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, status)
	return err
}

func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.OrderStatus) error {
	const q = `UPDATE orders SET status = $2 WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, status)
	return err
}

// ReleaseSellerItems marks every unreleased line of one seller released and
// reports how many lines changed.
func (r *repo) ReleaseSellerItems(ctx context.Context, tx *sql.Tx, orderID, sellerID int64, at time.Time) (int64, error) {
	const q = `
UPDATE order_items
SET released = TRUE, released_at = $3
WHERE order_id = $1 AND seller_id = $2 AND released = FALSE`
	res, err := tx.ExecContext(ctx, q, orderID, sellerID, at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) CountSellerItems(ctx context.Context, tx *sql.Tx, orderID, sellerID int64) (int64, error) {
	const q = `SELECT COUNT(*) FROM order_items WHERE order_id = $1 AND seller_id = $2`
	var n int64
	err := tx.QueryRowContext(ctx, q, orderID, sellerID).Scan(&n)
	return n, err
}

func (r *repo) CountUnreleased(ctx context.Context, tx *sql.Tx, orderID int64) (int64, error) {
	const q = `SELECT COUNT(*) FROM order_items WHERE order_id = $1 AND released = FALSE`
	var n int64
	err := tx.QueryRowContext(ctx, q, orderID).Scan(&n)
	return n, err
}

func scanOrder(row *sql.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.BuyerID, &o.Amount,
		&o.DeliveryAddress.FullName, &o.DeliveryAddress.PhoneNumber, &o.DeliveryAddress.Address,
		&o.DeliveryAddress.City, &o.DeliveryAddress.State,
		&o.PaymentMethod, &o.PaymentStatus, &o.Status, &o.ProofURL, &o.IsPaid, &o.PaidAt, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repo) orderRows(ctx context.Context, q string, args ...any) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.Amount,
			&o.DeliveryAddress.FullName, &o.DeliveryAddress.PhoneNumber, &o.DeliveryAddress.Address,
			&o.DeliveryAddress.City, &o.DeliveryAddress.State,
			&o.PaymentMethod, &o.PaymentStatus, &o.Status, &o.ProofURL, &o.IsPaid, &o.PaidAt, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *repo) itemRows(rows *sql.Rows, err error) ([]model.OrderItem, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.AdvertID, &it.SellerID,
			&it.Quantity, &it.Price, &it.Released, &it.ReleasedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
