package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/metrics"
	"fanstero_backend/internal/models"
	"fanstero_backend/internal/repositories"
	"fanstero_backend/internal/services/billing"
	"fanstero_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// CheckoutURLs - куда провайдер вернет подписчика после оплаты
type CheckoutURLs struct {
	SuccessURL string
	CancelURL  string
}

type PaymentService interface {
	CreateCheckout(ctx context.Context, db *gorm.DB, req *dto.CreateCheckoutRequest) (*dto.CheckoutResponse, error)
	// HandleWebhook проверяет подпись и применяет событие провайдера
	HandleWebhook(ctx context.Context, db *gorm.DB, payload []byte, signature string) (*dto.WebhookResult, error)
	// Reconcile переводит платеж в paid, выдает подписку и начисляет долю создателю.
	// Повторный вызов для уже оплаченной сессии ничего не меняет.
	Reconcile(ctx context.Context, db *gorm.DB, event *billing.WebhookEvent) (*dto.WebhookResult, error)
	GetBySessionID(ctx context.Context, db *gorm.DB, sessionID string) (*models.Payment, error)
}

type paymentService struct {
	paymentRepo   repositories.PaymentRepository
	planRepo      repositories.PlanRepository
	projectRepo   repositories.ProjectRepository
	endUserRepo   repositories.EndUserRepository
	userRepo      repositories.UserRepository
	subscriptions SubscriptionService
	provider      billing.Provider
	notifier      Notifier
	urls          CheckoutURLs
	feePercent    int64
	now           func() time.Time
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	planRepo repositories.PlanRepository,
	projectRepo repositories.ProjectRepository,
	endUserRepo repositories.EndUserRepository,
	userRepo repositories.UserRepository,
	subscriptions SubscriptionService,
	provider billing.Provider,
	notifier Notifier,
	urls CheckoutURLs,
	feePercent int64,
) PaymentService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &paymentService{
		paymentRepo:   paymentRepo,
		planRepo:      planRepo,
		projectRepo:   projectRepo,
		endUserRepo:   endUserRepo,
		userRepo:      userRepo,
		subscriptions: subscriptions,
		provider:      provider,
		notifier:      notifier,
		urls:          urls,
		feePercent:    feePercent,
		now:           time.Now,
	}
}

func (s *paymentService) CreateCheckout(ctx context.Context, db *gorm.DB, req *dto.CreateCheckoutRequest) (*dto.CheckoutResponse, error) {
	plan, err := s.planRepo.FindByID(db, req.PlanID)
	if err != nil {
		return nil, mapPlanError(err)
	}
	if !plan.Active {
		return nil, apperrors.ErrPlanInactive
	}
	if plan.IsFree() {
		return nil, apperrors.ErrInvalidOperation("payment", "Free plans do not need a checkout")
	}

	project, err := s.projectRepo.FindByID(db, plan.ProjectID)
	if err != nil {
		return nil, mapProjectError(err)
	}
	if !project.IsConnected() || !project.Active {
		return nil, apperrors.ErrProjectNotConnected
	}

	endUser, err := s.endUserRepo.FirstOrCreate(db, req.TelegramID, req.Language)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	amount := plan.PriceCents()
	session, err := s.provider.CreateCheckoutSession(ctx, &billing.CheckoutRequest{
		ProductName: fmt.Sprintf("%s - %s", project.Title, plan.Name),
		AmountCents: amount,
		Currency:    plan.Currency,
		SuccessURL:  s.urls.SuccessURL,
		CancelURL:   s.urls.CancelURL,
		ClientRef:   strconv.FormatInt(req.TelegramID, 10),
		Metadata: map[string]string{
			billing.MetaPlanID:     strconv.FormatUint(uint64(plan.ID), 10),
			billing.MetaProjectID:  strconv.FormatUint(uint64(project.ID), 10),
			billing.MetaTelegramID: strconv.FormatInt(req.TelegramID, 10),
		},
	})
	if err != nil {
		metrics.CheckoutSessionsTotal.WithLabelValues("error").Inc()
		logger.CtxWithError(ctx, "Checkout session creation failed", err, "plan_id", plan.ID)
		return nil, apperrors.ErrProvider(err)
	}

	payment := &models.Payment{
		EndUserID:         endUser.ID,
		ProjectID:         project.ID,
		PlanID:            plan.ID,
		Provider:          s.provider.Name(),
		ProviderSessionID: session.ID,
		AmountCents:       amount,
		Currency:          plan.Currency,
		Status:            models.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(db, payment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.CheckoutSessionsTotal.WithLabelValues("created").Inc()
	logger.CtxInfo(ctx, "Checkout session created",
		"payment_id", payment.ID, "session_id", session.ID, "plan_id", plan.ID, "amount_cents", amount)

	return &dto.CheckoutResponse{
		PaymentID:   payment.ID,
		SessionID:   session.ID,
		CheckoutURL: session.URL,
		AmountCents: amount,
		Currency:    plan.Currency,
	}, nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, db *gorm.DB, payload []byte, signature string) (*dto.WebhookResult, error) {
	event, err := s.provider.ParseWebhookEvent(payload, signature)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) {
			metrics.WebhookEventsTotal.WithLabelValues("unknown", "invalid_signature").Inc()
			logger.CtxWarn(ctx, "Webhook signature rejected", "error", err.Error())
			return nil, apperrors.ErrInvalidWebhookSignature
		}
		return nil, apperrors.NewBadRequestError("Malformed webhook payload").WithError(err)
	}

	var result *dto.WebhookResult
	switch event.Type {
	case billing.EventCheckoutCompleted:
		result, err = s.Reconcile(ctx, db, event)
	case billing.EventCheckoutFailed:
		result, err = s.markFailed(ctx, db, event)
	default:
		result = &dto.WebhookResult{Status: dto.WebhookStatusIgnored}
	}
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(string(event.Type), "error").Inc()
		return nil, err
	}

	result.EventType = event.RawType
	metrics.WebhookEventsTotal.WithLabelValues(string(event.Type), result.Status).Inc()
	return result, nil
}

func (s *paymentService) Reconcile(ctx context.Context, db *gorm.DB, event *billing.WebhookEvent) (*dto.WebhookResult, error) {
	var (
		payment *models.Payment
		plan    *models.SubscriptionPlan
		sub     *models.Subscription
		already bool
	)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		payment, err = s.paymentRepo.FindBySessionID(tx, event.SessionID)
		if err != nil {
			if errors.Is(err, repositories.ErrPaymentNotFound) {
				return apperrors.ErrPaymentNotFound
			}
			return apperrors.InternalError(err)
		}

		if payment.Status == models.PaymentStatusPaid {
			already = true
			return nil
		}
		if payment.Status != models.PaymentStatusPending {
			return apperrors.ErrInvalidStatus("payment", "Payment is not pending")
		}
		if event.AmountTotal != 0 && event.AmountTotal != payment.AmountCents {
			return apperrors.ErrInvalidPaymentAmount
		}
		if event.Currency != "" && !strings.EqualFold(event.Currency, payment.Currency) {
			return apperrors.ErrInvalidPaymentAmount
		}

		share, fee := SplitAmount(payment.AmountCents, s.feePercent)
		now := s.now()

		// условный переход: параллельная доставка того же события получит false
		changed, err := s.paymentRepo.MarkPaid(tx, payment.ID, share, fee, now)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !changed {
			already = true
			return nil
		}
		payment.Status = models.PaymentStatusPaid
		payment.CreatorShareCents = share
		payment.PlatformFeeCents = fee
		payment.PaidAt = &now

		plan, err = s.planRepo.FindByID(tx, payment.PlanID)
		if err != nil {
			return mapPlanError(err)
		}

		paymentID := payment.ID
		sub, err = s.subscriptions.Issue(ctx, tx, payment.EndUserID, plan, &paymentID, now)
		if err != nil {
			return err
		}

		project, err := s.projectRepo.FindByID(tx, payment.ProjectID)
		if err != nil {
			return mapProjectError(err)
		}
		if err := s.userRepo.CreditBalance(tx, project.UserID, share); err != nil {
			return mapUserError(err)
		}
		return nil
	})
	if err != nil {
		logger.CtxWithError(ctx, "Payment reconciliation failed", err, "session_id", event.SessionID)
		return nil, err
	}

	if already {
		logger.CtxInfo(ctx, "Webhook re-delivery ignored", "payment_id", payment.ID, "session_id", event.SessionID)
		return &dto.WebhookResult{Status: dto.WebhookStatusAlreadyProcessed, PaymentID: payment.ID}, nil
	}

	metrics.PaymentsPaidTotal.Inc()
	metrics.SubscriptionsIssuedTotal.WithLabelValues("paid").Inc()
	metrics.CreatorCreditedCents.WithLabelValues(payment.Currency).Add(float64(payment.CreatorShareCents))
	metrics.PlatformFeeCents.WithLabelValues(payment.Currency).Add(float64(payment.PlatformFeeCents))
	logger.CtxInfo(ctx, "Payment reconciled",
		"payment_id", payment.ID,
		"subscription_id", sub.ID,
		"creator_share_cents", payment.CreatorShareCents,
		"platform_fee_cents", payment.PlatformFeeCents)

	s.notifyPaid(ctx, db, payment, plan, sub)

	return &dto.WebhookResult{Status: dto.WebhookStatusProcessed, PaymentID: payment.ID}, nil
}

// notifyPaid вызывается после коммита; ошибки только логируются
func (s *paymentService) notifyPaid(ctx context.Context, db *gorm.DB, payment *models.Payment, plan *models.SubscriptionPlan, sub *models.Subscription) {
	project, err := s.projectRepo.FindByID(db, payment.ProjectID)
	if err != nil {
		logger.CtxWithError(ctx, "Notification skipped: project lookup failed", err, "payment_id", payment.ID)
		return
	}
	endUser, err := s.endUserRepo.FindByID(db, payment.EndUserID)
	if err != nil {
		logger.CtxWithError(ctx, "Notification skipped: subscriber lookup failed", err, "payment_id", payment.ID)
		return
	}

	if project.TelegramChannelID != nil {
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
	}

	owner, err := s.userRepo.FindByID(db, project.UserID)
	if err != nil {
		logger.CtxWithError(ctx, "Creator lookup failed", err, "project_id", project.ID)
		return
	}
	notice := &SaleNotice{
		CreatorTelegramID: owner.TelegramID,
		ProjectTitle:      project.Title,
		PlanName:          plan.Name,
		CreditedCents:     payment.CreatorShareCents,
		Currency:          payment.Currency,
	}
	if err := s.notifier.NotifyCreatorSale(ctx, notice); err != nil {
		metrics.NotificationErrorsTotal.WithLabelValues("sale").Inc()
		logger.CtxWithError(ctx, "Failed to notify creator about sale", err, "payment_id", payment.ID)
	}
}

func (s *paymentService) markFailed(ctx context.Context, db *gorm.DB, event *billing.WebhookEvent) (*dto.WebhookResult, error) {
	payment, err := s.paymentRepo.FindBySessionID(db, event.SessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return &dto.WebhookResult{Status: dto.WebhookStatusIgnored}, nil
		}
		return nil, apperrors.InternalError(err)
	}

	changed, err := s.paymentRepo.MarkFailed(db, payment.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !changed {
		return &dto.WebhookResult{Status: dto.WebhookStatusAlreadyProcessed, PaymentID: payment.ID}, nil
	}

	logger.CtxInfo(ctx, "Payment marked failed", "payment_id", payment.ID, "event", event.RawType)
	return &dto.WebhookResult{Status: dto.WebhookStatusProcessed, PaymentID: payment.ID}, nil
}

func (s *paymentService) GetBySessionID(ctx context.Context, db *gorm.DB, sessionID string) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindBySessionID(db, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return payment, nil
}
