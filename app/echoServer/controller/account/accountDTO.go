package account

type PayoutDetailsReq struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	WalletAddress string `json:"wallet_address"`
	Symbol        string `json:"symbol"`
	Network       string `json:"network"`
}

type WithdrawalReq struct {
	PaymentMethod  string           `json:"payment_method" validate:"required,oneof=fiat crypto"`
	PaymentDetails PayoutDetailsReq `json:"payment_details" validate:"required"`
	Amount         int64            `json:"amount" validate:"required,gt=0"`
}

type CompleteWithdrawalReq struct {
	IsCompleted *bool `json:"is_completed" validate:"required"`
}

type ProfileReq struct {
	Method  string           `json:"method" validate:"required,oneof=fiat crypto"`
	Details PayoutDetailsReq `json:"details" validate:"required"`
}

type UpdateProfilesReq struct {
	WithdrawalDetails []ProfileReq `json:"withdrawal_details" validate:"required,dive"`
}
