package cart

type AddItemReq struct {
	AdvertID int64 `json:"advert_id" validate:"required,gt=0"`
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

type QuantityReq struct {
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}
