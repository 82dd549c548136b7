package handlers

import (
	"net/http"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/models"
	"fanstero_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	*BaseHandler
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(base *BaseHandler, subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         base,
		subscriptionService: subscriptionService,
	}
}

func (h *SubscriptionHandler) RegisterRoutes(r *gin.RouterGroup) {
	subscriptions := r.Group("/subscriptions")
	{
		subscriptions.GET("/active", h.GetActive)
		subscriptions.POST("/from-plan", h.guards.Bot, h.CreateFromPlan)
		subscriptions.GET("/project/:project_id", h.guards.Auth, h.ListByProject)
	}
}

// CreateFromPlan godoc
// @Summary Выдать подписку на бесплатный план (бот)
// @Tags subscriptions
// @Param request body dto.CreateSubscriptionFromPlanRequest true "Запрос"
// @Success 201 {object} models.Subscription
// @Failure 402 {object} apperrors.ErrorResponse
// @Router /subscriptions/from-plan [post]
func (h *SubscriptionHandler) CreateFromPlan(c *gin.Context) {
	var req dto.CreateSubscriptionFromPlanRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	sub, err := h.subscriptionService.CreateFromPlan(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// GetActive godoc
// @Summary Активная подписка подписчика на проект
// @Tags subscriptions
// @Param telegram_id query int true "Telegram id подписчика"
// @Param project_id query int true "Project id"
// @Success 200 {object} models.Subscription
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /subscriptions/active [get]
func (h *SubscriptionHandler) GetActive(c *gin.Context) {
	var query dto.ActiveSubscriptionQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	sub, err := h.subscriptionService.GetActive(c.Request.Context(), h.GetDB(c), query.TelegramID, query.ProjectID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// ListByProject godoc
// @Summary Подписки проекта (владелец)
// @Tags subscriptions
// @Security BearerAuth
// @Param project_id path int true "Project id"
// @Param status query string false "active|expired|canceled"
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} map[string]interface{}
// @Router /subscriptions/project/{project_id} [get]
func (h *SubscriptionHandler) ListByProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	projectID, ok := ParseParamID(c, "project_id")
	if !ok {
		return
	}
	limit, offset := ParsePagination(c)

	subs, total, err := h.subscriptionService.ListByProject(
		c.Request.Context(), h.GetDB(c), userID, projectID,
		models.SubscriptionStatus(c.Query("status")), limit, offset,
	)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscriptions": subs,
		"total":         total,
	})
}
