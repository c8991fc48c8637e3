package cartsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ojimcy/mcgp-api/model"
	cartrepo "github.com/ojimcy/mcgp-api/repository/cart"
	"github.com/ojimcy/mcgp-api/util/apperr"
)

// Catalog is the product lookup collaborator. NotFound when the advert does
// not exist or is not purchasable.
type Catalog interface {
	GetProduct(ctx context.Context, id int64) (*model.Advert, error)
}

type Service interface {
	AddItem(ctx context.Context, userID, advertID, qty int64) (*model.CartItem, error)
	Items(ctx context.Context, userID int64) ([]model.CartItem, error)
	RemoveItem(ctx context.Context, userID, advertID int64) error
	Clear(ctx context.Context, userID int64) error
	Increase(ctx context.Context, userID, advertID, qty int64) (*model.CartItem, error)
	// Decrease lowers the quantity; the line is deleted when it reaches zero,
	// reported by a nil item.
	Decrease(ctx context.Context, userID, advertID, qty int64) (*model.CartItem, error)
}

type service struct {
	r       cartrepo.Repo
	catalog Catalog
}

func New(r cartrepo.Repo, catalog Catalog) Service {
	return &service{r: r, catalog: catalog}
}

func (s *service) AddItem(ctx context.Context, userID, advertID, qty int64) (*model.CartItem, error) {
	if qty <= 0 {
		return nil, apperr.E(apperr.InvalidArgument, "quantity must be a positive number")
	}

	product, err := s.catalog.GetProduct(ctx, advertID)
	if err != nil {
		return nil, err
	}

	item := &model.CartItem{
		UserID:   userID,
		AdvertID: advertID,
		Name:     product.Name,
		Image:    product.FeaturedImage,
		Price:    product.Price,
		Quantity: qty,
	}
	if err := s.r.Upsert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Items(ctx context.Context, userID int64) ([]model.CartItem, error) {
	return s.r.List(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, advertID int64) error {
	n, err := s.r.Delete(ctx, userID, advertID)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.E(apperr.NotFound, "cart item not found")
	}
	return nil
}

// Clear is idempotent: clearing an empty cart succeeds.
func (s *service) Clear(ctx context.Context, userID int64) error {
	return s.r.DeleteAll(ctx, userID)
}

func (s *service) Increase(ctx context.Context, userID, advertID, qty int64) (*model.CartItem, error) {
	if qty <= 0 {
		return nil, apperr.E(apperr.InvalidArgument, "quantity must be a positive number")
	}
	if _, err := s.r.AddQuantity(ctx, userID, advertID, qty); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, "cart item not found")
		}
		return nil, err
	}
	return s.r.Get(ctx, userID, advertID)
}

func (s *service) Decrease(ctx context.Context, userID, advertID, qty int64) (*model.CartItem, error) {
	if qty <= 0 {
		return nil, apperr.E(apperr.InvalidArgument, "quantity must be a positive number")
	}
	newQty, err := s.r.AddQuantity(ctx, userID, advertID, -qty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, "cart item not found")
		}
		return nil, err
	}
	if newQty <= 0 {
		if _, err := s.r.Delete(ctx, userID, advertID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return s.r.Get(ctx, userID, advertID)
}
