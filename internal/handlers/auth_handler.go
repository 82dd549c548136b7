package handlers

import (
	"net/http"
	"net/url"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	userService services.UserService
	frontendURL string
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, userService services.UserService, frontendURL string) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		userService: userService,
		frontendURL: frontendURL,
	}
}

// RegisterRoutes регистрирует все маршруты для аутентификации
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.GET("/telegram", h.TelegramLogin)
		auth.GET("/me", h.guards.Auth, h.Me)
	}
}

// TelegramLogin godoc
// @Summary Вход через Telegram Login Widget
// @Tags auth
// @Param id query int true "Telegram user id"
// @Param auth_date query int true "Unix time"
// @Param hash query string true "Подпись"
// @Param redirect query bool false "false - вернуть JSON вместо редиректа"
// @Success 200 {object} dto.AuthResponse
// @Success 302
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /auth/telegram [get]
func (h *AuthHandler) TelegramLogin(c *gin.Context) {
	var req dto.TelegramLoginData
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	_, token, err := h.authService.LoginWithTelegram(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if h.frontendURL == "" || c.Query("redirect") == "false" {
		c.JSON(http.StatusOK, token)
		return
	}

	// Редиректим обратно на frontend
	c.Redirect(http.StatusFound, h.frontendURL+"?token="+url.QueryEscape(token.AccessToken))
}

// Me godoc
// @Summary Текущий создатель
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
