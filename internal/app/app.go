package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fanstero_backend/database"
	"fanstero_backend/internal/auth"
	"fanstero_backend/internal/config"
	"fanstero_backend/internal/handlers"
	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/metrics"
	"fanstero_backend/internal/middleware"
	"fanstero_backend/internal/repositories"
	"fanstero_backend/internal/routes"
	"fanstero_backend/internal/services"
	"fanstero_backend/internal/services/billing"
	"fanstero_backend/internal/telegram"
	"fanstero_backend/internal/validator"
	"fanstero_backend/internal/workers"
	"fanstero_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Run поднимает HTTP API; бот и воркер истечения стартуют в том же процессе,
// если задан токен бота
func Run(ctx context.Context, cfg *config.Config) error {
	db, err := bootstrap(cfg)
	if err != nil {
		return err
	}

	bot, notifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}
	container, err := BuildServices(cfg, notifier)
	if err != nil {
		return err
	}

	if bot != nil {
		startBot(ctx, cfg, db, container, bot)
	}
	workers.NewSubscriptionWorker(db, container.SubscriptionService, expiryInterval(cfg)).Start(ctx)

	ginRouter := SetupRouter(cfg, db, container, NewTokenManager(cfg))

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", address, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server startup error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// RunBot - только бот и воркер истечения подписок (без HTTP API)
func RunBot(ctx context.Context, cfg *config.Config) error {
	if cfg.Telegram.BotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required to run the bot")
	}
	cfg.Telegram.Enabled = true

	db, err := bootstrap(cfg)
	if err != nil {
		return err
	}

	bot, notifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}
	container, err := BuildServices(cfg, notifier)
	if err != nil {
		return err
	}

	workers.NewSubscriptionWorker(db, container.SubscriptionService, expiryInterval(cfg)).Start(ctx)
	registerBotRoutes(cfg, db, container, bot)
	bot.Start(ctx)
	return nil
}

// Migrate применяет (up) или откатывает (down) SQL миграции
func Migrate(cfg *config.Config, direction string, steps int) error {
	initRuntime(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	switch direction {
	case "up":
		return database.MigrateUp(db)
	case "down":
		return database.MigrateDown(db, steps)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
}

func initRuntime(cfg *config.Config) {
	logger.Init(cfg.Server.Env)
	apperrors.DebugErrors = cfg.Server.Env != "production"
	metrics.InitMetrics()
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

func bootstrap(cfg *config.Config) (*gorm.DB, error) {
	initRuntime(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func expiryInterval(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Workers.ExpiryIntervalMinutes) * time.Minute
}

// newNotifier - Telegram, если есть токен; иначе уведомления только пишутся в лог
func newNotifier(cfg *config.Config) (*telegram.Bot, services.Notifier, error) {
	if !cfg.Telegram.Enabled || cfg.Telegram.BotToken == "" {
		logger.Warn("Telegram bot is disabled, bot notifications are logged only")
		return nil, LogNotifier{}, nil
	}

	bot, err := telegram.NewBot(cfg.Telegram.BotToken)
	if err != nil {
		return nil, nil, err
	}
	return bot, telegram.NewNotifier(bot.Raw(), cfg.Telegram.BotUsername, cfg.Server.FrontendURL), nil
}

func registerBotRoutes(cfg *config.Config, db *gorm.DB, container *services.ServiceContainer, bot *telegram.Bot) {
	botHandlers := telegram.NewHandlers(db, container, cfg.Telegram.BotUsername, cfg.Server.FrontendURL)
	telegram.NewRouter(botHandlers).RegisterRoutes(bot.Raw())
}

func startBot(ctx context.Context, cfg *config.Config, db *gorm.DB, container *services.ServiceContainer, bot *telegram.Bot) {
	registerBotRoutes(cfg, db, container, bot)
	go bot.Start(ctx)
}

// NewTokenManager - JWT для дашборда создателя
func NewTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)
}

// newPaymentProvider - Stripe по ключу; MockProvider только вне production
// и только с заданным секретом вебхука
func newPaymentProvider(cfg *config.Config) (billing.Provider, error) {
	if cfg.Stripe.SecretKey != "" {
		if cfg.Stripe.WebhookSecret == "" {
			return nil, errors.New("STRIPE_WEBHOOK_SECRET is required with STRIPE_SECRET_KEY")
		}
		return billing.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret), nil
	}
	if cfg.IsProduction() {
		return nil, errors.New("STRIPE_SECRET_KEY is required in production")
	}
	if cfg.Stripe.WebhookSecret == "" {
		return nil, errors.New("STRIPE_WEBHOOK_SECRET is required for the mock payment provider")
	}
	logger.Warn("STRIPE_SECRET_KEY is not set, using mock payment provider")
	return billing.NewMockProvider(cfg.Stripe.WebhookSecret), nil
}

// BuildServices собирает сервисы
func BuildServices(cfg *config.Config, notifier services.Notifier) (*services.ServiceContainer, error) {
	provider, err := newPaymentProvider(cfg)
	if err != nil {
		return nil, err
	}

	settings := services.BillingSettings{
		PlatformFeePercent: cfg.Billing.PlatformFeePercent,
		MinPayoutCents:     cfg.Billing.MinPayoutCents,
		Currency:           cfg.Billing.Currency,
	}

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	projectRepo := repositories.NewProjectRepository()
	planRepo := repositories.NewPlanRepository()
	endUserRepo := repositories.NewEndUserRepository()
	subscriptionRepo := repositories.NewSubscriptionRepository()
	paymentRepo := repositories.NewPaymentRepository()
	payoutRepo := repositories.NewPayoutRepository()

	// --- Сервисы ---
	userService := services.NewUserService(userRepo, paymentRepo, payoutRepo, settings)
	authService := services.NewAuthService(userService, NewTokenManager(cfg), cfg.Telegram.BotToken)
	projectService := services.NewProjectService(projectRepo, userRepo, notifier, cfg.Telegram.BotUsername)
	planService := services.NewPlanService(planRepo, projectService, cfg.Billing.Currency)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, endUserRepo, planRepo, projectRepo, projectService, notifier)
	paymentService := services.NewPaymentService(
		paymentRepo, planRepo, projectRepo, endUserRepo, userRepo,
		subscriptionService, provider, notifier,
		services.CheckoutURLs{SuccessURL: cfg.Stripe.SuccessURL, CancelURL: cfg.Stripe.CancelURL},
		cfg.Billing.PlatformFeePercent,
	)
	payoutService := services.NewPayoutService(payoutRepo, userRepo, settings)

	return &services.ServiceContainer{
		UserService:         userService,
		AuthService:         authService,
		ProjectService:      projectService,
		PlanService:         planService,
		SubscriptionService: subscriptionService,
		PaymentService:      paymentService,
		PayoutService:       payoutService,
		Provider:            provider,
		Notifier:            notifier,
	}, nil
}

// SetupRouter собирает gin с middleware и всеми хэндлерами
func SetupRouter(cfg *config.Config, db *gorm.DB, container *services.ServiceContainer, tokens *auth.TokenManager) *gin.Engine {
	guards := handlers.Guards{
		Auth:  middleware.AuthMiddleware(tokens, cfg.IsAdmin),
		Admin: middleware.AdminMiddleware(),
		Bot:   middleware.BotSecretMiddleware(cfg.Telegram.BotSecret),
	}
	baseHandler := handlers.NewBaseHandler(validator.New(), guards)

	appHandlers := &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService, container.UserService, cfg.Server.FrontendURL),
		UserHandler:         handlers.NewUserHandler(baseHandler, container.UserService),
		ProjectHandler:      handlers.NewProjectHandler(baseHandler, container.ProjectService),
		PlanHandler:         handlers.NewPlanHandler(baseHandler, container.PlanService),
		SubscriptionHandler: handlers.NewSubscriptionHandler(baseHandler, container.SubscriptionService),
		PaymentHandler: handlers.NewPaymentHandler(baseHandler,
			container.PaymentService, container.UserService, container.PayoutService, cfg.Telegram.BotUsername),
		AdminHandler: handlers.NewAdminHandler(baseHandler, container.PayoutService, container.ProjectService),
	}

	ginRouter := initializeGinRouter(cfg, db)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}
