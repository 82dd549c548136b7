package services

import (
	"context"
	"errors"
	"time"

	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/metrics"
	"fanstero_backend/internal/models"
	"fanstero_backend/internal/repositories"
	"fanstero_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type PayoutService interface {
	// RequestPayout списывает весь баланс создателя в заявку на выплату
	RequestPayout(ctx context.Context, db *gorm.DB, userID uint) (*models.PayoutRequest, error)
	ListForUser(ctx context.Context, db *gorm.DB, userID uint) ([]models.PayoutRequest, error)
	ListAll(ctx context.Context, db *gorm.DB, status models.PayoutStatus, limit, offset int) ([]models.PayoutRequest, int64, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, payoutID uint, status models.PayoutStatus) (*models.PayoutRequest, error)
}

type payoutService struct {
	payoutRepo repositories.PayoutRepository
	userRepo   repositories.UserRepository
	billing    BillingSettings
	now        func() time.Time
}

func NewPayoutService(payoutRepo repositories.PayoutRepository, userRepo repositories.UserRepository, billing BillingSettings) PayoutService {
	return &payoutService{
		payoutRepo: payoutRepo,
		userRepo:   userRepo,
		billing:    billing,
		now:        time.Now,
	}
}

func (s *payoutService) RequestPayout(ctx context.Context, db *gorm.DB, userID uint) (*models.PayoutRequest, error) {
	var payout *models.PayoutRequest

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByID(tx, userID)
		if err != nil {
			return mapUserError(err)
		}
		if !user.HasPayoutSettings() {
			return apperrors.ErrPayoutSettingsMissing
		}
		if user.BalanceCents <= 0 || user.BalanceCents < s.billing.MinPayoutCents {
			return apperrors.ErrBalanceBelowMinimum.WithDetails(map[string]int64{
				"balance_cents":    user.BalanceCents,
				"min_payout_cents": s.billing.MinPayoutCents,
			})
		}

		// списание условное: параллельный запрос не уведет баланс в минус
		if err := s.userRepo.DebitBalance(tx, user.ID, user.BalanceCents); err != nil {
			if errors.Is(err, repositories.ErrInsufficientBalance) {
				return apperrors.ErrBalanceBelowMinimum
			}
			return apperrors.InternalError(err)
		}

		payout = &models.PayoutRequest{
			UserID:        user.ID,
			AmountCents:   user.BalanceCents,
			Currency:      s.billing.Currency,
			Status:        models.PayoutStatusPending,
			PayoutMethod:  user.PayoutMethod,
			PayoutDetails: user.PayoutDetails,
		}
		if err := s.payoutRepo.Create(tx, payout); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PayoutRequestsTotal.WithLabelValues(string(models.PayoutStatusPending)).Inc()
	logger.CtxInfo(ctx, "Payout requested", "payout_id", payout.ID, "user_id", userID, "amount_cents", payout.AmountCents)
	return payout, nil
}

func (s *payoutService) ListForUser(ctx context.Context, db *gorm.DB, userID uint) ([]models.PayoutRequest, error) {
	payouts, err := s.payoutRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return payouts, nil
}

func (s *payoutService) ListAll(ctx context.Context, db *gorm.DB, status models.PayoutStatus, limit, offset int) ([]models.PayoutRequest, int64, error) {
	payouts, total, err := s.payoutRepo.FindAll(db, status, limit, offset)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return payouts, total, nil
}

func (s *payoutService) UpdateStatus(ctx context.Context, db *gorm.DB, payoutID uint, status models.PayoutStatus) (*models.PayoutRequest, error) {
	payout, err := s.payoutRepo.FindByID(db, payoutID)
	if err != nil {
		if errors.Is(err, repositories.ErrPayoutNotFound) {
			return nil, apperrors.ErrPayoutNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if !payout.Status.CanTransitionTo(status) {
		return nil, apperrors.ErrInvalidPayoutTransition.WithDetails(map[string]string{
			"from": string(payout.Status),
			"to":   string(status),
		})
	}

	var processedAt *time.Time
	if status == models.PayoutStatusPaid || status == models.PayoutStatusRejected {
		now := s.now()
		processedAt = &now
	}

	if err := s.payoutRepo.UpdateStatus(db, payout.ID, payout.Status, status, processedAt); err != nil {
		if errors.Is(err, repositories.ErrPayoutStatusChanged) {
			return nil, apperrors.ErrInvalidPayoutTransition
		}
		return nil, apperrors.InternalError(err)
	}

	metrics.PayoutRequestsTotal.WithLabelValues(string(status)).Inc()
	logger.CtxInfo(ctx, "Payout status changed", "payout_id", payout.ID, "from", payout.Status, "to", status)

	payout.Status = status
	payout.ProcessedAt = processedAt
	return payout, nil
}
