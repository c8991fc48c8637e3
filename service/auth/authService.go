package authsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ojimcy/mcgp-api/model"
	accountrepo "github.com/ojimcy/mcgp-api/repository/account"
	userrepo "github.com/ojimcy/mcgp-api/repository/user"
	"github.com/ojimcy/mcgp-api/util/apperr"
	"github.com/ojimcy/mcgp-api/util/hash"
	jwtutil "github.com/ojimcy/mcgp-api/util/jwt"
)

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
	// VerifyKyc marks a user as KYC verified so they can post adverts.
	VerifyKyc(ctx context.Context, userID int64) error
}

type service struct {
	db     *sql.DB
	ur     userrepo.Repo
	ar     accountrepo.Repo
	secret string
}

func New(db *sql.DB, ur userrepo.Repo, ar accountrepo.Repo, secret string) Service {
	return &service{db: db, ur: ur, ar: ar, secret: secret}
}

// Register creates the user and their ledger account in one transaction so an
// account always exists for settlement.
func (s *service) Register(ctx context.Context, req model.RegisterReq) (u *model.User, token string, err error) {
	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	u = &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hashed,
		Role:         "user",
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.ur.Create(ctx, tx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			err = derr
		}
		return nil, "", err
	}
	if _, err = s.ar.Create(ctx, tx, u.ID); err != nil {
		return nil, "", err
	}
	if err = tx.Commit(); err != nil {
		return nil, "", err
	}

	token, err = jwtutil.Issue(s.secret, u.ID, u.Role, 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	u, err := s.ur.ByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, "", apperr.E(apperr.Forbidden, "invalid credentials")
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", apperr.E(apperr.Forbidden, "invalid credentials")
	}
	token, err := jwtutil.Issue(s.secret, u.ID, u.Role, 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) VerifyKyc(ctx context.Context, userID int64) error {
	if _, err := s.ur.ByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.E(apperr.NotFound, "user not found")
		}
		return err
	}
	return s.ur.SetKycVerified(ctx, userID, true)
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)

		if strings.Contains(cn, "users_email") || strings.Contains(msg, "email") {
			return apperr.E(apperr.Conflict, "email already registered")
		}
		if strings.Contains(cn, "users_username") || strings.Contains(msg, "username") {
			return apperr.E(apperr.Conflict, "username already taken")
		}
		return apperr.E(apperr.Conflict, "duplicate value")
	}
	return nil
}
