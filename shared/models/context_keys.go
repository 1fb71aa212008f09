package models

// contextKey - приватный тип для ключей контекста, чтобы избежать коллизий.
type contextKey string

const (
	// SessionContextKey используется как ключ для хранения ID сессии браузера в контексте gin.
	SessionContextKey contextKey = "sessionID"
	// AdminContextKey используется как ключ для хранения флага режима администратора.
	AdminContextKey contextKey = "isAdmin"
	// RequestIDContextKey хранит X-Request-ID текущего запроса.
	RequestIDContextKey contextKey = "requestID"
)
