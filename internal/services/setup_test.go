package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"fanstero_backend/internal/auth"
	"fanstero_backend/internal/models"
	"fanstero_backend/internal/repositories"
	"fanstero_backend/internal/services"
	"fanstero_backend/internal/services/billing"
	"fanstero_backend/test/helpers"

	"gorm.io/gorm"
)

const testBotToken = "123456:TEST-bot-token"

// fakeNotifier запоминает все исходящие уведомления
type fakeNotifier struct {
	mu        sync.Mutex
	grants    []*services.SubscriptionGrant
	sales     []*services.SaleNotice
	expired   []uint
	connected []uint
	failWith  error
}

func (f *fakeNotifier) NotifySubscriptionGranted(_ context.Context, g *services.SubscriptionGrant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grants = append(f.grants, g)
	return f.failWith
}

func (f *fakeNotifier) NotifyCreatorSale(_ context.Context, n *services.SaleNotice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sales = append(f.sales, n)
	return f.failWith
}

func (f *fakeNotifier) NotifySubscriptionExpired(_ context.Context, sub *models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = append(f.expired, sub.ID)
	return f.failWith
}

func (f *fakeNotifier) NotifyChannelConnected(_ context.Context, _ int64, p *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = append(f.connected, p.ID)
	return f.failWith
}

type testEnv struct {
	db       *gorm.DB
	provider *billing.MockProvider
	notifier *fakeNotifier
	svc      *services.ServiceContainer
	billing  services.BillingSettings
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := helpers.NewTestDB(t)
	provider := billing.NewMockProvider("whsec_test")
	notifier := &fakeNotifier{}
	settings := services.BillingSettings{PlatformFeePercent: 10, MinPayoutCents: 2000, Currency: "EUR"}

	userRepo := repositories.NewUserRepository()
	projectRepo := repositories.NewProjectRepository()
	planRepo := repositories.NewPlanRepository()
	endUserRepo := repositories.NewEndUserRepository()
	subRepo := repositories.NewSubscriptionRepository()
	paymentRepo := repositories.NewPaymentRepository()
	payoutRepo := repositories.NewPayoutRepository()

	userService := services.NewUserService(userRepo, paymentRepo, payoutRepo, settings)
	projectService := services.NewProjectService(projectRepo, userRepo, notifier, "fanstero_bot")
	subscriptionService := services.NewSubscriptionService(subRepo, endUserRepo, planRepo, projectRepo, projectService, notifier)

	svc := &services.ServiceContainer{
		UserService:         userService,
		AuthService:         services.NewAuthService(userService, auth.NewTokenManager("jwt-secret", time.Hour), testBotToken),
		ProjectService:      projectService,
		PlanService:         services.NewPlanService(planRepo, projectService, "EUR"),
		SubscriptionService: subscriptionService,
		PaymentService: services.NewPaymentService(
			paymentRepo, planRepo, projectRepo, endUserRepo, userRepo,
			subscriptionService, provider, notifier,
			services.CheckoutURLs{SuccessURL: "https://example.test/ok", CancelURL: "https://example.test/cancel"},
			settings.PlatformFeePercent,
		),
		PayoutService: services.NewPayoutService(payoutRepo, userRepo, settings),
		Provider:      provider,
		Notifier:      notifier,
	}

	return &testEnv{db: db, provider: provider, notifier: notifier, svc: svc, billing: settings}
}
