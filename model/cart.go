// model/cart.go
package model

import "time"

// CartItem is one (user, advert) line. Name, image and price are snapshotted
// from the advert at add time; the order builder re-resolves them at checkout.
type CartItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	AdvertID  int64     `json:"advert_id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Price     int64     `json:"price"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}
