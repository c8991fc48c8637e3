// Package paymentsvc records the buyer's proof of payment. Money does not
// move here; settlement happens on a separate acknowledgement call once an
// authority confirms receipt.
package paymentsvc

import (
	"context"
	"time"

	"github.com/ojimcy/mcgp-api/model"
	orderrepo "github.com/ojimcy/mcgp-api/repository/order"
	storagerepo "github.com/ojimcy/mcgp-api/repository/storage"
	"github.com/ojimcy/mcgp-api/util/apperr"
)

// CollectionAccount holds the platform account buyers transfer into.
type CollectionAccount struct {
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
}

var collectionAccounts = map[model.PaymentMethod]CollectionAccount{
	model.PayBankTransfer: {
		AccountName:   "MCGP Global",
		AccountNumber: "1234567890",
		BankName:      "Monie point",
	},
	model.PayCrypto: {
		WalletAddress: "0x10E0271ec47d55511xx--2a7301801d55eaB",
	},
}

type Service interface {
	// Submit uploads the proof image and marks the order paid by the buyer.
	Submit(ctx context.Context, orderID int64, proofPath string, method model.PaymentMethod) (CollectionAccount, error)
	// Instructions returns the collection account for a payment method.
	Instructions(method model.PaymentMethod) (CollectionAccount, error)
}

type service struct {
	orders  orderrepo.Repo
	storage storagerepo.Repo
}

func New(orders orderrepo.Repo, storage storagerepo.Repo) Service {
	return &service{orders: orders, storage: storage}
}

func (s *service) Submit(ctx context.Context, orderID int64, proofPath string, method model.PaymentMethod) (CollectionAccount, error) {
	dest, ok := collectionAccounts[method]
	if !ok {
		return CollectionAccount{}, apperr.E(apperr.InvalidArgument, "invalid payment method")
	}
	if proofPath == "" {
		return CollectionAccount{}, apperr.E(apperr.InvalidArgument, "payment proof is required")
	}

	proofURL, err := s.storage.UploadImage(ctx, proofPath)
	if err != nil {
		return CollectionAccount{}, err
	}

	n, err := s.orders.SetPaymentProof(ctx, orderID, proofURL, method, time.Now().UTC())
	if err != nil {
		return CollectionAccount{}, err
	}
	if n == 0 {
		// The update skips released and completed orders, so zero rows
		// means either a missing order or a closed one.
		if o, lookupErr := s.orders.ByID(ctx, orderID); lookupErr == nil && o != nil {
			return CollectionAccount{}, apperr.E(apperr.InvalidState, "order is no longer payable")
		}
		return CollectionAccount{}, apperr.E(apperr.NotFound, "order not found")
	}
	return dest, nil
}

func (s *service) Instructions(method model.PaymentMethod) (CollectionAccount, error) {
	dest, ok := collectionAccounts[method]
	if !ok {
		return CollectionAccount{}, apperr.E(apperr.InvalidArgument, "invalid payment method")
	}
	return dest, nil
}
