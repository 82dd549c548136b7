package services

import (
	"fanstero_backend/internal/services/billing"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	UserService         UserService
	AuthService         AuthService
	ProjectService      ProjectService
	PlanService         PlanService
	SubscriptionService SubscriptionService
	PaymentService      PaymentService
	PayoutService       PayoutService

	Provider billing.Provider
	Notifier Notifier
}
