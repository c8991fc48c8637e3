// model/advert.go
package model

import "time"

type AdvertStatus string

const (
	AdvertPending  AdvertStatus = "Pending"
	AdvertApproved AdvertStatus = "Approved"
	AdvertRejected AdvertStatus = "Rejected"
)

// Advert is a seller listing. Price is in integer cents.
type Advert struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         int64        `json:"price"`
	Location      string       `json:"location"`
	FeaturedImage string       `json:"featured_image"`
	Status        AdvertStatus `json:"status"`
	CreatedBy     int64        `json:"created_by"`
	ModeratedBy   *int64       `json:"moderated_by,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}
