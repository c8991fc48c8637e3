package userrepo

import (
	"context"
	"database/sql"

	"github.com/ojimcy/mcgp-api/model"
)

type Repo interface {
	Create(ctx context.Context, tx *sql.Tx, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
	SetKycVerified(ctx context.Context, id int64, verified bool) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, tx *sql.Tx, u *model.User) error {
	const q = `
INSERT INTO users (first_name, last_name, email, username, password_hash, role)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id, created_at`
	return tx.QueryRowContext(ctx, q,
		u.FirstName, u.LastName, u.Email, u.Username, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT id, first_name, last_name, email, username, password_hash, role, is_kyc_verified, created_at
FROM users
WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `
SELECT id, first_name, last_name, email, username, password_hash, role, is_kyc_verified, created_at
FROM users
WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) SetKycVerified(ctx context.Context, id int64, verified bool) error {
	const q = `UPDATE users SET is_kyc_verified = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, verified)
	return err
}

func (r *repo) scanOne(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Username,
		&u.PasswordHash, &u.Role, &u.IsKycVerified, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
