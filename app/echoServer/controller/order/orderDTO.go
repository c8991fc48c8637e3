package order

type DeliveryAddressReq struct {
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
}

type CreateOrderReq struct {
	PaymentMethod   string             `json:"payment_method" validate:"required,oneof=bank_transfer crypto"`
	DeliveryAddress DeliveryAddressReq `json:"delivery_address" validate:"required"`
}

type AcknowledgePaymentReq struct {
	IsPaymentReceived *bool `json:"is_payment_received" validate:"required"`
}
