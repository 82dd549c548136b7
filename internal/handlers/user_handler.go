package handlers

import (
	"net/http"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	// вызывает бот
	users := r.Group("/users")
	users.Use(h.guards.Bot)
	{
		users.POST("/", h.CreateUser)
		users.GET("/:telegram_id", h.GetByTelegramID)
	}
}

// CreateUser godoc
// @Summary Регистрация создателя (create-or-get по telegram_id)
// @Tags users
// @Param request body dto.CreateUserRequest true "Создатель"
// @Success 201 {object} models.User
// @Success 200 {object} models.User
// @Router /users/ [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, created, err := h.userService.CreateOrGet(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}

// GetByTelegramID godoc
// @Summary Создатель по telegram id
// @Tags users
// @Param telegram_id path int true "Telegram id"
// @Success 200 {object} models.User
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /users/{telegram_id} [get]
func (h *UserHandler) GetByTelegramID(c *gin.Context) {
	telegramID, ok := ParseParamTelegramID(c, "telegram_id")
	if !ok {
		return
	}

	user, err := h.userService.GetByTelegramID(c.Request.Context(), h.GetDB(c), telegramID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
