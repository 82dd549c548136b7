package services

import (
	"context"
	"errors"
	"time"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/metrics"
	"fanstero_backend/internal/models"
	"fanstero_backend/internal/repositories"
	"fanstero_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const expireBatchSize = 100

type SubscriptionService interface {
	// CreateFromPlan выдает подписку на бесплатный план; для платного - 402
	CreateFromPlan(ctx context.Context, db *gorm.DB, req *dto.CreateSubscriptionFromPlanRequest) (*models.Subscription, error)
	GetActive(ctx context.Context, db *gorm.DB, telegramID int64, projectID uint) (*models.Subscription, error)
	ListByProject(ctx context.Context, db *gorm.DB, ownerID, projectID uint, status models.SubscriptionStatus, limit, offset int) ([]models.Subscription, int64, error)
	ListActiveForSubscriber(ctx context.Context, db *gorm.DB, telegramID int64) ([]models.Subscription, error)

	// Issue создает подписку внутри транзакции вызывающего.
	// Новый период начинается с конца текущей активной подписки, если она есть.
	Issue(ctx context.Context, tx *gorm.DB, endUserID uint, plan *models.SubscriptionPlan, paymentID *uint, now time.Time) (*models.Subscription, error)
	// ExpireOverdue переводит просроченные подписки в expired и уведомляет бота
	ExpireOverdue(ctx context.Context, db *gorm.DB, now time.Time) (int, error)
}

type subscriptionService struct {
	subRepo     repositories.SubscriptionRepository
	endUserRepo repositories.EndUserRepository
	planRepo    repositories.PlanRepository
	projectRepo repositories.ProjectRepository
	projects    ProjectService
	notifier    Notifier
	now         func() time.Time
}

func NewSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	endUserRepo repositories.EndUserRepository,
	planRepo repositories.PlanRepository,
	projectRepo repositories.ProjectRepository,
	projects ProjectService,
	notifier Notifier,
) SubscriptionService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &subscriptionService{
		subRepo:     subRepo,
		endUserRepo: endUserRepo,
		planRepo:    planRepo,
		projectRepo: projectRepo,
		projects:    projects,
		notifier:    notifier,
		now:         time.Now,
	}
}

func (s *subscriptionService) CreateFromPlan(ctx context.Context, db *gorm.DB, req *dto.CreateSubscriptionFromPlanRequest) (*models.Subscription, error) {
	plan, err := s.planRepo.FindByID(db, req.PlanID)
	if err != nil {
		return nil, mapPlanError(err)
	}
	if !plan.Active {
		return nil, apperrors.ErrPlanInactive
	}
	if !plan.IsFree() {
		return nil, apperrors.ErrPaidPlanRequiresPayment
	}

	project, err := s.projectRepo.FindByID(db, plan.ProjectID)
	if err != nil {
		return nil, mapProjectError(err)
	}
	if !project.IsConnected() {
		return nil, apperrors.ErrProjectNotConnected
	}

	var (
		sub     *models.Subscription
		endUser *models.EndUser
	)
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		endUser, err = s.endUserRepo.FirstOrCreate(tx, req.TelegramID, req.Language)
		if err != nil {
			return apperrors.InternalError(err)
		}

		now := s.now()
		// бесплатный период не складывается с текущим
		if _, err := s.subRepo.FindActive(tx, endUser.ID, plan.ProjectID, now); err == nil {
			return apperrors.ErrSubscriptionAlreadyActive
		} else if !errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return apperrors.InternalError(err)
		}

		sub, err = s.Issue(ctx, tx, endUser.ID, plan, nil, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.SubscriptionsIssuedTotal.WithLabelValues("free").Inc()
	logger.CtxInfo(ctx, "Free subscription issued", "subscription_id", sub.ID, "plan_id", plan.ID, "telegram_id", req.TelegramID)

	grant := &SubscriptionGrant{
		SubscriptionID:       sub.ID,
		SubscriberTelegramID: endUser.TelegramID,
		ChannelID:            *project.TelegramChannelID,
		ProjectTitle:         project.Title,
		PlanName:             plan.Name,
		EndAt:                sub.EndAt,
		Language:             endUser.Language,
	}
	if err := s.notifier.NotifySubscriptionGranted(ctx, grant); err != nil {
		metrics.NotificationErrorsTotal.WithLabelValues("grant").Inc()
		logger.CtxWithError(ctx, "Failed to deliver invite link", err, "subscription_id", sub.ID)
	}
	return sub, nil
}

func (s *subscriptionService) Issue(ctx context.Context, tx *gorm.DB, endUserID uint, plan *models.SubscriptionPlan, paymentID *uint, now time.Time) (*models.Subscription, error) {
	if plan.DurationDays <= 0 {
		return nil, apperrors.ErrInvalidOperation("subscription", "Plan duration must be positive")
	}
	if paymentID != nil {
		count, err := s.subRepo.CountByPayment(tx, *paymentID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if count > 0 {
			return nil, apperrors.ErrConflict(nil, "subscription", "Subscription for this payment already issued")
		}
	}

	start := now
	latest, err := s.subRepo.LatestActiveEnd(tx, endUserID, plan.ProjectID, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if latest != nil && latest.After(start) {
		start = *latest
	}

	sub := &models.Subscription{
		EndUserID: endUserID,
		ProjectID: plan.ProjectID,
		PlanID:    plan.ID,
		PaymentID: paymentID,
		StartAt:   start,
		EndAt:     start.AddDate(0, 0, plan.DurationDays),
		Status:    models.SubscriptionStatusActive,
	}
	if err := s.subRepo.Create(tx, sub); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return sub, nil
}

func (s *subscriptionService) GetActive(ctx context.Context, db *gorm.DB, telegramID int64, projectID uint) (*models.Subscription, error) {
	endUser, err := s.endUserRepo.FindByTelegramID(db, telegramID)
	if err != nil {
		if errors.Is(err, repositories.ErrEndUserNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	sub, err := s.subRepo.FindActive(db, endUser.ID, projectID, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return sub, nil
}

func (s *subscriptionService) ListByProject(ctx context.Context, db *gorm.DB, ownerID, projectID uint, status models.SubscriptionStatus, limit, offset int) ([]models.Subscription, int64, error) {
	if _, err := s.projects.GetOwned(ctx, db, ownerID, projectID); err != nil {
		return nil, 0, err
	}
	subs, total, err := s.subRepo.FindByProject(db, projectID, status, limit, offset)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return subs, total, nil
}

func (s *subscriptionService) ListActiveForSubscriber(ctx context.Context, db *gorm.DB, telegramID int64) ([]models.Subscription, error) {
	endUser, err := s.endUserRepo.FindByTelegramID(db, telegramID)
	if err != nil {
		if errors.Is(err, repositories.ErrEndUserNotFound) {
			return []models.Subscription{}, nil
		}
		return nil, apperrors.InternalError(err)
	}
	subs, err := s.subRepo.FindActiveByEndUser(db, endUser.ID, s.now())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return subs, nil
}

func (s *subscriptionService) ExpireOverdue(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	expired := 0
	for {
		subs, err := s.subRepo.FindExpired(db, now, expireBatchSize)
		if err != nil {
			return expired, err
		}
		if len(subs) == 0 {
			return expired, nil
		}

		for i := range subs {
			sub := &subs[i]
			changed, err := s.subRepo.MarkExpired(db, sub.ID)
			if err != nil {
				return expired, err
			}
			if !changed {
				continue
			}
			expired++
			metrics.SubscriptionsExpiredTotal.Inc()

			// продленная "в стык" подписка еще действует - из канала не выгоняем
			if _, err := s.subRepo.FindActive(db, sub.EndUserID, sub.ProjectID, now); err == nil {
				continue
			}
			if err := s.notifier.NotifySubscriptionExpired(ctx, sub); err != nil {
				metrics.NotificationErrorsTotal.WithLabelValues("expire").Inc()
				logger.CtxWithError(ctx, "Failed to revoke channel access", err, "subscription_id", sub.ID)
			}
		}

		if len(subs) < expireBatchSize {
			return expired, nil
		}
	}
}
