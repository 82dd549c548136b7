// Package billing - интеграция с платежным провайдером (Stripe Checkout)
package billing

import (
	"context"
	"errors"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

type EventType string

const (
	EventCheckoutCompleted EventType = "checkout_completed"
	EventCheckoutFailed    EventType = "checkout_failed"
	EventOther             EventType = "other"
)

// Ключи metadata сессии
const (
	MetaPaymentID  = "payment_id"
	MetaPlanID     = "plan_id"
	MetaProjectID  = "project_id"
	MetaTelegramID = "telegram_id"
)

type CheckoutRequest struct {
	ProductName string
	AmountCents int64
	Currency    string
	SuccessURL  string
	CancelURL   string
	ClientRef   string
	Metadata    map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent - провайдеро-независимое представление события
type WebhookEvent struct {
	ID          string
	Type        EventType
	RawType     string
	SessionID   string
	Paid        bool
	AmountTotal int64
	Currency    string
	Metadata    map[string]string
}

type Provider interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error)
	// ParseWebhookEvent проверяет подпись и разбирает событие
	ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error)
}
