package services

import (
	"context"
	"errors"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/models"
	"fanstero_backend/internal/repositories"
	"fanstero_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	// CreateOrGet - регистрация создателя по telegram_id (идемпотентна)
	CreateOrGet(ctx context.Context, db *gorm.DB, req *dto.CreateUserRequest) (*models.User, bool, error)
	GetByID(ctx context.Context, db *gorm.DB, id uint) (*models.User, error)
	GetByTelegramID(ctx context.Context, db *gorm.DB, telegramID int64) (*models.User, error)
	UpdatePayoutSettings(ctx context.Context, db *gorm.DB, userID uint, req *dto.PayoutSettingsRequest) (*models.User, error)
	GetBalanceSummary(ctx context.Context, db *gorm.DB, userID uint) (*dto.BalanceSummary, error)
}

type userService struct {
	userRepo    repositories.UserRepository
	paymentRepo repositories.PaymentRepository
	payoutRepo  repositories.PayoutRepository
	billing     BillingSettings
}

// BillingSettings - параметры из config.Billing
type BillingSettings struct {
	PlatformFeePercent int64
	MinPayoutCents     int64
	Currency           string
}

func NewUserService(
	userRepo repositories.UserRepository,
	paymentRepo repositories.PaymentRepository,
	payoutRepo repositories.PayoutRepository,
	billing BillingSettings,
) UserService {
	return &userService{
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		payoutRepo:  payoutRepo,
		billing:     billing,
	}
}

func (s *userService) CreateOrGet(ctx context.Context, db *gorm.DB, req *dto.CreateUserRequest) (*models.User, bool, error) {
	user := &models.User{
		TelegramID: req.TelegramID,
		Name:       req.Name,
		Username:   req.Username,
		Language:   req.Language,
	}
	if user.Language == "" {
		user.Language = "en"
	}

	created, err := s.userRepo.FirstOrCreate(db, user)
	if err != nil {
		return nil, false, apperrors.InternalError(err)
	}

	if created {
		logger.CtxInfo(ctx, "Creator registered", "user_id", user.ID, "telegram_id", user.TelegramID)
		return user, true, nil
	}

	// Имя и username в Telegram меняются - держим их актуальными
	if (req.Name != "" && req.Name != user.Name) || (req.Username != "" && req.Username != user.Username) {
		name, username := user.Name, user.Username
		if req.Name != "" {
			name = req.Name
		}
		if req.Username != "" {
			username = req.Username
		}
		if err := s.userRepo.UpdateProfile(db, user.ID, name, username); err != nil {
			return nil, false, apperrors.InternalError(err)
		}
		user.Name, user.Username = name, username
	}
	return user, false, nil
}

func (s *userService) GetByID(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		return nil, mapUserError(err)
	}
	return user, nil
}

func (s *userService) GetByTelegramID(ctx context.Context, db *gorm.DB, telegramID int64) (*models.User, error) {
	user, err := s.userRepo.FindByTelegramID(db, telegramID)
	if err != nil {
		return nil, mapUserError(err)
	}
	return user, nil
}

func (s *userService) UpdatePayoutSettings(ctx context.Context, db *gorm.DB, userID uint, req *dto.PayoutSettingsRequest) (*models.User, error) {
	if err := s.userRepo.UpdatePayoutSettings(db, userID, models.PayoutMethod(req.PayoutMethod), req.PayoutDetails); err != nil {
		return nil, mapUserError(err)
	}
	logger.CtxInfo(ctx, "Payout settings updated", "user_id", userID, "method", req.PayoutMethod)
	return s.GetByID(ctx, db, userID)
}

func (s *userService) GetBalanceSummary(ctx context.Context, db *gorm.DB, userID uint) (*dto.BalanceSummary, error) {
	user, err := s.GetByID(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	earnings, err := s.paymentRepo.EarningsByCreator(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	pending, err := s.payoutRepo.SumPendingByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.BalanceSummary{
		BalanceCents:       user.BalanceCents,
		Currency:           s.billing.Currency,
		TotalEarnedCents:   earnings.TotalShareCents,
		PaidPaymentsCount:  earnings.PaidCount,
		PendingPayoutCents: pending,
		MinPayoutCents:     s.billing.MinPayoutCents,
		PlatformFeePercent: s.billing.PlatformFeePercent,
		PayoutMethod:       string(user.PayoutMethod),
		PayoutDetails:      user.PayoutDetails,
		CanRequestPayout:   user.HasPayoutSettings() && user.BalanceCents >= s.billing.MinPayoutCents,
	}, nil
}

func mapUserError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.InternalError(err)
}
