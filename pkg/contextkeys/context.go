package contextkeys

// Кастомный тип, чтобы избежать коллизий в context.Context
type contextKey string

// DBContextKey - ключ, по которому хранится *gorm.DB (пул или транзакция)
const DBContextKey = contextKey("db")

// Ключи gin.Context, которые выставляет AuthMiddleware
const (
	UserIDKey     = "userID"
	TelegramIDKey = "telegramID"
	IsAdminKey    = "isAdmin"
)
