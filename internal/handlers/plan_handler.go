package handlers

import (
	"net/http"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	*BaseHandler
	planService services.PlanService
}

func NewPlanHandler(base *BaseHandler, planService services.PlanService) *PlanHandler {
	return &PlanHandler{
		BaseHandler: base,
		planService: planService,
	}
}

func (h *PlanHandler) RegisterRoutes(r *gin.RouterGroup) {
	plans := r.Group("/plans")
	{
		plans.GET("/project/:project_id", h.ListByProject)
		plans.GET("/:id", h.GetPlan)

		plans.POST("/", h.guards.Auth, h.CreatePlan)
		plans.PUT("/:id", h.guards.Auth, h.UpdatePlan)
		plans.DELETE("/:id", h.guards.Auth, h.DeactivatePlan)
	}
}

// ListByProject godoc
// @Summary Активные планы проекта
// @Tags plans
// @Param project_id path int true "Project id"
// @Success 200 {array} models.SubscriptionPlan
// @Router /plans/project/{project_id} [get]
func (h *PlanHandler) ListByProject(c *gin.Context) {
	projectID, ok := ParseParamID(c, "project_id")
	if !ok {
		return
	}

	plans, err := h.planService.ListActiveByProject(c.Request.Context(), h.GetDB(c), projectID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlan godoc
// @Summary План по id
// @Tags plans
// @Param id path int true "Plan id"
// @Success 200 {object} models.SubscriptionPlan
// @Router /plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.Get(c.Request.Context(), h.GetDB(c), planID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// CreatePlan godoc
// @Summary Создать план (владелец проекта)
// @Tags plans
// @Security BearerAuth
// @Param request body dto.CreatePlanRequest true "План"
// @Success 201 {object} models.SubscriptionPlan
// @Router /plans/ [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePlanRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// UpdatePlan godoc
// @Summary Изменить план
// @Tags plans
// @Security BearerAuth
// @Param id path int true "Plan id"
// @Param request body dto.UpdatePlanRequest true "Поля"
// @Success 200 {object} models.SubscriptionPlan
// @Router /plans/{id} [put]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	planID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePlanRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), h.GetDB(c), userID, planID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeactivatePlan godoc
// @Summary Деактивировать план
// @Tags plans
// @Security BearerAuth
// @Param id path int true "Plan id"
// @Success 204
// @Router /plans/{id} [delete]
func (h *PlanHandler) DeactivatePlan(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	planID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	if err := h.planService.Deactivate(c.Request.Context(), h.GetDB(c), userID, planID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
