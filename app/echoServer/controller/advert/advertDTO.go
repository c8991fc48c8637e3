package advert

type CreateAdvertReq struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	Price         int64  `json:"price" validate:"required,gt=0"`
	Location      string `json:"location" validate:"required"`
	FeaturedImage string `json:"featured_image"`
}
