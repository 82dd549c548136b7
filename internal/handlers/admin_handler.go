package handlers

import (
	"net/http"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/models"
	"fanstero_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	payoutService  services.PayoutService
	projectService services.ProjectService
}

func NewAdminHandler(base *BaseHandler, payoutService services.PayoutService, projectService services.ProjectService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    base,
		payoutService:  payoutService,
		projectService: projectService,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(h.guards.Auth, h.guards.Admin)
	{
		admin.GET("/payouts", h.ListPayouts)
		admin.PUT("/payouts/:id/status", h.UpdatePayoutStatus)
		admin.GET("/projects", h.ListProjects)
	}
}

// ListPayouts godoc
// @Summary Заявки на выплату (админ)
// @Tags admin
// @Security BearerAuth
// @Param status query string false "pending|approved|paid|rejected"
// @Success 200 {object} map[string]interface{}
// @Router /admin/payouts [get]
func (h *AdminHandler) ListPayouts(c *gin.Context) {
	limit, offset := ParsePagination(c)

	payouts, total, err := h.payoutService.ListAll(c.Request.Context(), h.GetDB(c), models.PayoutStatus(c.Query("status")), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payouts": payouts,
		"total":   total,
	})
}

// UpdatePayoutStatus godoc
// @Summary Сменить статус выплаты (админ)
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Payout id"
// @Param request body dto.UpdatePayoutStatusRequest true "Статус"
// @Success 200 {object} models.PayoutRequest
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /admin/payouts/{id}/status [put]
func (h *AdminHandler) UpdatePayoutStatus(c *gin.Context) {
	payoutID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePayoutStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	payout, err := h.payoutService.UpdateStatus(c.Request.Context(), h.GetDB(c), payoutID, models.PayoutStatus(req.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, payout)
}

// ListProjects godoc
// @Summary Все активные проекты (админ)
// @Tags admin
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /admin/projects [get]
func (h *AdminHandler) ListProjects(c *gin.Context) {
	limit, offset := ParsePagination(c)

	projects, total, err := h.projectService.ListAll(c.Request.Context(), h.GetDB(c), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"total":    total,
	})
}
