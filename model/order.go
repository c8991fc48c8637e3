// model/order.go
package model

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderPaid      OrderStatus = "Paid"
	OrderReleased  OrderStatus = "Released"
	OrderCompleted OrderStatus = "Completed"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
)

type PaymentMethod string

const (
	PayBankTransfer PaymentMethod = "bank_transfer"
	PayCrypto       PaymentMethod = "crypto"
)

type DeliveryAddress struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
}

// OrderItem is one seller's line. Price is the line total (unit price at
// checkout time, times quantity) in cents and is never recomputed.
type OrderItem struct {
	ID         int64      `json:"id"`
	OrderID    int64      `json:"order_id"`
	AdvertID   int64      `json:"advert_id"`
	SellerID   int64      `json:"seller_id"`
	Quantity   int64      `json:"quantity"`
	Price      int64      `json:"price"`
	Released   bool       `json:"released"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
}

type Order struct {
	ID              int64           `json:"id"`
	BuyerID         int64           `json:"buyer_id"`
	Amount          int64           `json:"amount"`
	DeliveryAddress DeliveryAddress `json:"delivery_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	Status          OrderStatus     `json:"status"`
	ProofURL        *string         `json:"proof_url,omitempty"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []OrderItem     `json:"items,omitempty"`
}
