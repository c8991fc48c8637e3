package cartrepo

import (
	"context"
	"database/sql"

	"github.com/ojimcy/mcgp-api/model"
)

type Repo interface {
	Upsert(ctx context.Context, item *model.CartItem) error
	Get(ctx context.Context, userID, advertID int64) (*model.CartItem, error)
	List(ctx context.Context, userID int64) ([]model.CartItem, error)
	AddQuantity(ctx context.Context, userID, advertID, delta int64) (newQty int64, err error)
	Delete(ctx context.Context, userID, advertID int64) (int64, error)
	DeleteAll(ctx context.Context, userID int64) error
	DeleteAllTx(ctx context.Context, tx *sql.Tx, userID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

// Upsert inserts a new line or accumulates quantity onto an existing one.
// The ON CONFLICT arm keeps concurrent adds for the same (user, advert)
// from losing increments.
func (r *repo) Upsert(ctx context.Context, item *model.CartItem) error {
	const q = `
INSERT INTO cart_items (user_id, advert_id, name, image, price, quantity)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (user_id, advert_id)
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
RETURNING id, quantity, created_at`
	return r.db.QueryRowContext(ctx, q,
		item.UserID, item.AdvertID, item.Name, item.Image, item.Price, item.Quantity,
	).Scan(&item.ID, &item.Quantity, &item.CreatedAt)
}

func (r *repo) Get(ctx context.Context, userID, advertID int64) (*model.CartItem, error) {
	const q = `
SELECT id, user_id, advert_id, name, image, price, quantity, created_at
FROM cart_items
WHERE user_id = $1 AND advert_id = $2`
	var it model.CartItem
	err := r.db.QueryRowContext(ctx, q, userID, advertID).Scan(
		&it.ID, &it.UserID, &it.AdvertID, &it.Name, &it.Image, &it.Price, &it.Quantity, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repo) List(ctx context.Context, userID int64) ([]model.CartItem, error) {
	const q = `
SELECT id, user_id, advert_id, name, image, price, quantity, created_at
FROM cart_items
WHERE user_id = $1
ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CartItem
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.AdvertID, &it.Name, &it.Image,
			&it.Price, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// AddQuantity applies a signed delta at the store level and returns the new
// quantity. sql.ErrNoRows when the line does not exist.
func (r *repo) AddQuantity(ctx context.Context, userID, advertID, delta int64) (int64, error) {
	const q = `
UPDATE cart_items
SET quantity = quantity + $3
WHERE user_id = $1 AND advert_id = $2
RETURNING quantity`
	var qty int64
	err := r.db.QueryRowContext(ctx, q, userID, advertID, delta).Scan(&qty)
	return qty, err
}

func (r *repo) Delete(ctx context.Context, userID, advertID int64) (int64, error) {
	const q = `DELETE FROM cart_items WHERE user_id = $1 AND advert_id = $2`
	res, err := r.db.ExecContext(ctx, q, userID, advertID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) DeleteAll(ctx context.Context, userID int64) error {
	const q = `DELETE FROM cart_items WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, q, userID)
	return err
}

func (r *repo) DeleteAllTx(ctx context.Context, tx *sql.Tx, userID int64) error {
	const q = `DELETE FROM cart_items WHERE user_id = $1`
	_, err := tx.ExecContext(ctx, q, userID)
	return err
}
