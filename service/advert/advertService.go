package advertsvc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ojimcy/mcgp-api/model"
	advertrepo "github.com/ojimcy/mcgp-api/repository/advert"
	cacherepo "github.com/ojimcy/mcgp-api/repository/cache"
	userrepo "github.com/ojimcy/mcgp-api/repository/user"
	"github.com/ojimcy/mcgp-api/util/apperr"
)

const cacheTTL = 5 * time.Minute

type CreateAdvertInput struct {
	Name          string
	Description   string
	Price         int64
	Location      string
	FeaturedImage string
}

type Service interface {
	Create(ctx context.Context, sellerID int64, in CreateAdvertInput) (*model.Advert, error)
	Detail(ctx context.Context, id int64) (*model.Advert, error)
	List(ctx context.Context) ([]model.Advert, error)
	Moderate(ctx context.Context, adminID, advertID int64, approve bool) error

	// GetProduct is the catalog lookup the cart and order builder use.
	// Only approved adverts are purchasable.
	GetProduct(ctx context.Context, id int64) (*model.Advert, error)
}

type service struct {
	r     advertrepo.Repo
	ur    userrepo.Repo
	cache cacherepo.Cache
}

func New(r advertrepo.Repo, ur userrepo.Repo, cache cacherepo.Cache) Service {
	return &service{r: r, ur: ur, cache: cache}
}

func (s *service) Create(ctx context.Context, sellerID int64, in CreateAdvertInput) (*model.Advert, error) {
	if in.Name == "" || in.Price <= 0 {
		return nil, apperr.E(apperr.InvalidArgument, "name and positive price are required")
	}
	seller, err := s.ur.ByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, "user not found")
		}
		return nil, err
	}
	if !seller.IsKycVerified {
		return nil, apperr.E(apperr.Forbidden, "kyc verification required to post adverts")
	}

	a := &model.Advert{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		Location:      in.Location,
		FeaturedImage: in.FeaturedImage,
		Status:        model.AdvertPending,
		CreatedBy:     sellerID,
	}
	if err := s.r.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Advert, error) {
	key := cacheKey(id)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var a model.Advert
		if err := json.Unmarshal([]byte(raw), &a); err == nil {
			return &a, nil
		}
	}

	a, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, "advert not found")
		}
		return nil, err
	}
	if raw, err := json.Marshal(a); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), cacheTTL); err != nil {
			slog.Warn("advert cache set failed", "advert_id", id, "err", err)
		}
	}
	return a, nil
}

func (s *service) List(ctx context.Context) ([]model.Advert, error) {
	return s.r.ListApproved(ctx)
}

func (s *service) Moderate(ctx context.Context, adminID, advertID int64, approve bool) error {
	status := model.AdvertApproved
	if !approve {
		status = model.AdvertRejected
	}
	n, err := s.r.SetStatus(ctx, advertID, status, adminID)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.E(apperr.NotFound, "advert not found")
	}
	if err := s.cache.Del(ctx, cacheKey(advertID)); err != nil {
		slog.Warn("advert cache invalidation failed", "advert_id", advertID, "err", err)
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*model.Advert, error) {
	a, err := s.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != model.AdvertApproved {
		return nil, apperr.E(apperr.NotFound, "advert not found")
	}
	return a, nil
}

func cacheKey(id int64) string { return fmt.Sprintf("advert:%d", id) }
