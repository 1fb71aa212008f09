package middleware

import (
	"stickerverse/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader - заголовок с идентификатором запроса.
const RequestIDHeader = "X-Request-ID"

// RequestID проставляет X-Request-ID в ответ (берет из запроса или генерирует новый)
// и кладет его в контекст gin.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set(string(models.RequestIDContextKey), requestID)
		c.Next()
	}
}
