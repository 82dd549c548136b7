package dto

type CreateCheckoutRequest struct {
	PlanID     uint   `json:"plan_id" validate:"required"`
	TelegramID int64  `json:"telegram_id" validate:"required,gt=0"`
	Language   string `json:"language" validate:"omitempty,max=8"`
}

type CheckoutResponse struct {
	PaymentID   uint   `json:"payment_id"`
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// WebhookResult - ответ на вебхук провайдера
type WebhookResult struct {
	Status    string `json:"status"` // processed | already_processed | ignored
	EventType string `json:"event_type,omitempty"`
	PaymentID uint   `json:"payment_id,omitempty"`
}

const (
	WebhookStatusProcessed        = "processed"
	WebhookStatusAlreadyProcessed = "already_processed"
	WebhookStatusIgnored          = "ignored"
)

type UpdatePayoutStatusRequest struct {
	Status string `json:"status" validate:"required,is-payout-status"`
}
