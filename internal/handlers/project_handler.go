package handlers

import (
	"net/http"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	*BaseHandler
	projectService services.ProjectService
}

func NewProjectHandler(base *BaseHandler, projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    base,
		projectService: projectService,
	}
}

func (h *ProjectHandler) RegisterRoutes(r *gin.RouterGroup) {
	projects := r.Group("/projects")
	{
		// Public
		projects.GET("/:id", h.GetProject)

		// Creator (JWT)
		projects.GET("/", h.guards.Auth, h.ListMyProjects)
		projects.POST("/", h.guards.Auth, h.CreateProject)
		projects.PUT("/:id", h.guards.Auth, h.UpdateProject)
		projects.GET("/:id/connect-link", h.guards.Auth, h.GetConnectLink)
		projects.POST("/:id/connect-link", h.guards.Auth, h.RegenerateConnectLink)

		// Bot
		projects.GET("/by_owner/:telegram_id", h.guards.Bot, h.ListByOwner)
		projects.POST("/connect-channel", h.guards.Bot, h.ConnectChannel)
	}

	// старый путь бота
	r.POST("/bot/channel-connected", h.guards.Bot, h.ConnectChannel)
}

// ListMyProjects godoc
// @Summary Проекты текущего создателя
// @Tags projects
// @Security BearerAuth
// @Success 200 {array} models.Project
// @Router /projects/ [get]
func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListByOwner(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// CreateProject godoc
// @Summary Создать проект (канал в статусе pending)
// @Tags projects
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "Проект"
// @Success 201 {object} models.Project
// @Router /projects/ [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// GetProject godoc
// @Summary Проект по id
// @Tags projects
// @Param id path int true "Project id"
// @Success 200 {object} models.Project
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), h.GetDB(c), projectID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	// код подключения видит только владелец
	project.ConnectionCode = ""
	c.JSON(http.StatusOK, project)
}

// UpdateProject godoc
// @Summary Изменить проект
// @Tags projects
// @Security BearerAuth
// @Param id path int true "Project id"
// @Param request body dto.UpdateProjectRequest true "Поля"
// @Success 200 {object} models.Project
// @Router /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	projectID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), h.GetDB(c), userID, projectID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// GetConnectLink godoc
// @Summary Deep link для подключения канала
// @Tags projects
// @Security BearerAuth
// @Param id path int true "Project id"
// @Success 200 {object} dto.ConnectLinkResponse
// @Router /projects/{id}/connect-link [get]
func (h *ProjectHandler) GetConnectLink(c *gin.Context) {
	h.connectLink(c, false)
}

// RegenerateConnectLink godoc
// @Summary Новый код подключения (старый перестает работать)
// @Tags projects
// @Security BearerAuth
// @Param id path int true "Project id"
// @Success 200 {object} dto.ConnectLinkResponse
// @Router /projects/{id}/connect-link [post]
func (h *ProjectHandler) RegenerateConnectLink(c *gin.Context) {
	h.connectLink(c, true)
}

func (h *ProjectHandler) connectLink(c *gin.Context, regenerate bool) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	projectID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	link, err := h.projectService.GetConnectLink(c.Request.Context(), h.GetDB(c), userID, projectID, regenerate)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// ListByOwner godoc
// @Summary Проекты создателя по telegram id (бот)
// @Tags projects
// @Param telegram_id path int true "Telegram id"
// @Success 200 {array} models.Project
// @Router /projects/by_owner/{telegram_id} [get]
func (h *ProjectHandler) ListByOwner(c *gin.Context) {
	telegramID, ok := ParseParamTelegramID(c, "telegram_id")
	if !ok {
		return
	}

	projects, err := h.projectService.ListByOwnerTelegramID(c.Request.Context(), h.GetDB(c), telegramID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// ConnectChannel godoc
// @Summary Привязать канал к проекту по коду подключения (бот)
// @Tags projects
// @Param request body dto.ConnectChannelRequest true "Канал"
// @Success 200 {object} models.Project
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /projects/connect-channel [post]
func (h *ProjectHandler) ConnectChannel(c *gin.Context) {
	var req dto.ConnectChannelRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.projectService.ConnectChannel(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}
