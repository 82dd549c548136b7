package services

import (
	"context"
	"time"

	"fanstero_backend/internal/models"
)

// SubscriptionGrant - всё, что нужно, чтобы выдать подписчику доступ в канал
type SubscriptionGrant struct {
	SubscriptionID       uint
	SubscriberTelegramID int64
	ChannelID            int64
	ProjectTitle         string
	PlanName             string
	EndAt                time.Time
	Language             string
}

// SaleNotice - уведомление создателю о продаже
type SaleNotice struct {
	CreatorTelegramID int64
	ProjectTitle      string
	PlanName          string
	CreditedCents     int64
	Currency          string
}

// Notifier - исходящие сообщения в Telegram. Ошибки уведомлений
// логируются и не откатывают уже зафиксированные изменения.
type Notifier interface {
	// NotifySubscriptionGranted создает одноразовую инвайт-ссылку и отправляет её подписчику
	NotifySubscriptionGranted(ctx context.Context, grant *SubscriptionGrant) error
	NotifyCreatorSale(ctx context.Context, notice *SaleNotice) error
	// NotifySubscriptionExpired убирает подписчика из канала и пишет ему
	NotifySubscriptionExpired(ctx context.Context, sub *models.Subscription) error
	NotifyChannelConnected(ctx context.Context, creatorTelegramID int64, project *models.Project) error
}

// NoopNotifier - когда бот выключен
type NoopNotifier struct{}

func (NoopNotifier) NotifySubscriptionGranted(context.Context, *SubscriptionGrant) error { return nil }
func (NoopNotifier) NotifyCreatorSale(context.Context, *SaleNotice) error               { return nil }
func (NoopNotifier) NotifySubscriptionExpired(context.Context, *models.Subscription) error {
	return nil
}
func (NoopNotifier) NotifyChannelConnected(context.Context, int64, *models.Project) error {
	return nil
}
