package advertrepo

import (
	"context"
	"database/sql"

	"github.com/ojimcy/mcgp-api/model"
)

type Repo interface {
	Create(ctx context.Context, a *model.Advert) error
	ByID(ctx context.Context, id int64) (*model.Advert, error)
	ByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Advert, error)
	ListApproved(ctx context.Context) ([]model.Advert, error)
	SetStatus(ctx context.Context, id int64, status model.AdvertStatus, moderatorID int64) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, a *model.Advert) error {
	const q = `
INSERT INTO adverts (name, description, price, location, featured_image, status, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		a.Name, a.Description, a.Price, a.Location, a.FeaturedImage, a.Status, a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt)
}

const selectAdvert = `
SELECT id, name, description, price, location, featured_image, status, created_by, moderated_by, created_at
FROM adverts
WHERE id = $1`

func (r *repo) ByID(ctx context.Context, id int64) (*model.Advert, error) {
	return scanAdvert(r.db.QueryRowContext(ctx, selectAdvert, id))
}

// ByIDTx resolves an advert inside an open transaction. The order builder
// uses it so every line of a checkout reads the same snapshot.
func (r *repo) ByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Advert, error) {
	return scanAdvert(tx.QueryRowContext(ctx, selectAdvert, id))
}

func (r *repo) ListApproved(ctx context.Context) ([]model.Advert, error) {
	const q = `
SELECT id, name, description, price, location, featured_image, status, created_by, moderated_by, created_at
FROM adverts
WHERE status = 'Approved'
ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Advert
	for rows.Next() {
		var a model.Advert
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Price, &a.Location,
			&a.FeaturedImage, &a.Status, &a.CreatedBy, &a.ModeratedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repo) SetStatus(ctx context.Context, id int64, status model.AdvertStatus, moderatorID int64) (int64, error) {
	const q = `
UPDATE adverts
SET status = $2, moderated_by = $3
WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, status, moderatorID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanAdvert(row *sql.Row) (*model.Advert, error) {
	var a model.Advert
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Price, &a.Location,
		&a.FeaturedImage, &a.Status, &a.CreatedBy, &a.ModeratedBy, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
