package handlers

import "github.com/gin-gonic/gin"

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	ProjectHandler      *ProjectHandler
	PlanHandler         *PlanHandler
	SubscriptionHandler *SubscriptionHandler
	PaymentHandler      *PaymentHandler
	AdminHandler        *AdminHandler
}

// RouteRegistrar - хэндлер, который сам вешает свои роуты
type RouteRegistrar interface {
	RegisterRoutes(r *gin.RouterGroup)
}

func (h *AppHandlers) All() []RouteRegistrar {
	return []RouteRegistrar{
		h.AuthHandler,
		h.UserHandler,
		h.ProjectHandler,
		h.PlanHandler,
		h.SubscriptionHandler,
		h.PaymentHandler,
		h.AdminHandler,
	}
}
