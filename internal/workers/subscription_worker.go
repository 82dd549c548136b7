package workers

import (
	"context"
	"time"

	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/services"

	"gorm.io/gorm"
)

const workerName = "subscription_expiry"

// SubscriptionWorker переводит просроченные подписки в expired
// и убирает подписчиков из каналов
type SubscriptionWorker struct {
	db            *gorm.DB
	subscriptions services.SubscriptionService
	interval      time.Duration
	now           func() time.Time
}

func NewSubscriptionWorker(db *gorm.DB, subscriptions services.SubscriptionService, interval time.Duration) *SubscriptionWorker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &SubscriptionWorker{
		db:            db,
		subscriptions: subscriptions,
		interval:      interval,
		now:           time.Now,
	}
}

// Start запускает фоновую проверку; остановка по ctx
func (w *SubscriptionWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *SubscriptionWorker) run(ctx context.Context) {
	// первый проход сразу, не дожидаясь тикера
	w.RunOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog(workerName, "stop", nil)
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce - один проход; возвращает число истекших подписок
func (w *SubscriptionWorker) RunOnce(ctx context.Context) int {
	expired, err := w.subscriptions.ExpireOverdue(ctx, w.db, w.now())
	if err != nil {
		logger.WorkerLog(workerName, "expire", err, "expired", expired)
		return expired
	}
	if expired > 0 {
		logger.WorkerLog(workerName, "expire", nil, "expired", expired)
	}
	return expired
}
