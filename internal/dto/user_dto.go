package dto

// CreateUserRequest - бот регистрирует создателя (create-or-get по telegram_id)
type CreateUserRequest struct {
	TelegramID int64  `json:"telegram_id" validate:"required,gt=0" example:"123456789"`
	Name       string `json:"name" validate:"max=255" example:"Anna"`
	Username   string `json:"username" validate:"max=255" example:"anna_channel"`
	Language   string `json:"language" validate:"omitempty,max=8" example:"en"`
}

type PayoutSettingsRequest struct {
	PayoutMethod  string `json:"payout_method" validate:"required,is-payout-method" example:"iban"`
	PayoutDetails string `json:"payout_details" validate:"required,min=4,max=1024" example:"DE89 3704 0044 0532 0130 00"`
}

// BalanceSummary - сводка для дашборда создателя
type BalanceSummary struct {
	BalanceCents       int64  `json:"balance_cents"`
	Currency           string `json:"currency"`
	TotalEarnedCents   int64  `json:"total_earned_cents"`
	PaidPaymentsCount  int64  `json:"paid_payments_count"`
	PendingPayoutCents int64  `json:"pending_payout_cents"`
	MinPayoutCents     int64  `json:"min_payout_cents"`
	PlatformFeePercent int64  `json:"platform_fee_percent"`
	PayoutMethod       string `json:"payout_method,omitempty"`
	PayoutDetails      string `json:"payout_details,omitempty"`
	CanRequestPayout   bool   `json:"can_request_payout"`
}
