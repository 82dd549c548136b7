package app

import (
	"context"

	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/models"
	"fanstero_backend/internal/services"
)

// LogNotifier используется локально без токена бота: события только пишутся в лог
type LogNotifier struct{}

var _ services.Notifier = LogNotifier{}

func (LogNotifier) NotifySubscriptionGranted(ctx context.Context, g *services.SubscriptionGrant) error {
	logger.CtxInfo(ctx, "[mock bot] subscription granted",
		"subscription_id", g.SubscriptionID, "telegram_id", g.SubscriberTelegramID, "channel_id", g.ChannelID)
	return nil
}

func (LogNotifier) NotifyCreatorSale(ctx context.Context, s *services.SaleNotice) error {
	logger.CtxInfo(ctx, "[mock bot] creator sale",
		"telegram_id", s.CreatorTelegramID, "credited", services.FormatCents(s.CreditedCents), "currency", s.Currency)
	return nil
}

func (LogNotifier) NotifySubscriptionExpired(ctx context.Context, sub *models.Subscription) error {
	logger.CtxInfo(ctx, "[mock bot] subscription expired", "subscription_id", sub.ID)
	return nil
}

func (LogNotifier) NotifyChannelConnected(ctx context.Context, creatorTelegramID int64, p *models.Project) error {
	logger.CtxInfo(ctx, "[mock bot] channel connected", "telegram_id", creatorTelegramID, "project_id", p.ID)
	return nil
}
