package middleware

import (
	"crypto/subtle"
	"strings"

	"fanstero_backend/internal/auth"
	"fanstero_backend/internal/logger"
	"fanstero_backend/pkg/apperrors"
	"fanstero_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// BotSecretHeader - заголовок служебных запросов от бота
const BotSecretHeader = "X-Bot-Secret"

// AdminChecker - кто считается администратором платформы (config.IsAdmin)
type AdminChecker func(telegramID int64) bool

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware(tokens *auth.TokenManager, isAdmin AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ParseToken(tokenStr)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		// Сохраняем claims в контекст
		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.TelegramIDKey, claims.TelegramID)
		c.Set(contextkeys.IsAdminKey, isAdmin != nil && isAdmin(claims.TelegramID))

		ctx := logger.WithUserID(c.Request.Context(), claims.Subject)
		ctx = logger.WithTelegramID(ctx, claims.TelegramID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// AdminMiddleware - только после AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(contextkeys.IsAdminKey) {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// BotSecretMiddleware защищает роуты, которые вызывает бот.
// Пустой секрет - роуты открыты (локальная разработка).
func BotSecretMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		got := c.GetHeader(BotSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			logger.CtxWarn(c.Request.Context(), "Bot secret rejected", "path", c.Request.URL.Path, "ip", c.ClientIP())
			apperrors.HandleError(c, apperrors.ErrInvalidBotSecret)
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID создателя из контекста
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(contextkeys.UserIDKey)
	if !exists {
		return 0
	}
	id, _ := userID.(uint)
	return id
}
