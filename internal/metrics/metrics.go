package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP метрики
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "path"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests in flight",
		},
	)

	// Платежи
	CheckoutSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_sessions_total",
			Help: "Checkout sessions created, by result",
		},
		[]string{"result"},
	)
	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhook_events_total",
			Help: "Provider webhook events, by event type and outcome",
		},
		[]string{"type", "outcome"},
	)
	PaymentsPaidTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_paid_total",
			Help: "Payments reconciled as paid",
		},
	)
	CreatorCreditedCents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creator_credited_cents_total",
			Help: "Amount credited to creator balances, in cents",
		},
		[]string{"currency"},
	)
	PlatformFeeCents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_fee_cents_total",
			Help: "Platform fee retained, in cents",
		},
		[]string{"currency"},
	)

	// Подписки
	SubscriptionsIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_issued_total",
			Help: "Subscriptions issued, by source (free|paid)",
		},
		[]string{"source"},
	)
	SubscriptionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Subscriptions moved to expired by the expiry worker",
		},
	)

	// Выплаты
	PayoutRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payout_requests_total",
			Help: "Payout request status changes",
		},
		[]string{"status"},
	)

	// Бот
	BotUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_bot_updates_total",
			Help: "Telegram updates handled, by handler",
		},
		[]string{"handler"},
	)
	NotificationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_notification_errors_total",
			Help: "Failed outgoing Telegram notifications",
		},
		[]string{"kind"},
	)
)

var once sync.Once

// InitMetrics регистрирует метрики в default registry; повторный вызов ничего не делает
func InitMetrics() {
	once.Do(func() {
		// HTTP
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(HTTPRequestsInFlight)

		// Платежи
		prometheus.MustRegister(CheckoutSessionsTotal)
		prometheus.MustRegister(WebhookEventsTotal)
		prometheus.MustRegister(PaymentsPaidTotal)
		prometheus.MustRegister(CreatorCreditedCents)
		prometheus.MustRegister(PlatformFeeCents)

		// Подписки и выплаты
		prometheus.MustRegister(SubscriptionsIssuedTotal)
		prometheus.MustRegister(SubscriptionsExpiredTotal)
		prometheus.MustRegister(PayoutRequestsTotal)

		// Бот
		prometheus.MustRegister(BotUpdatesTotal)
		prometheus.MustRegister(NotificationErrorsTotal)
	})
}
