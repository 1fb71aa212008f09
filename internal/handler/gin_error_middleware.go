package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CustomErrorMiddleware логирует ошибки обработчиков и отдает страницу 404.
func CustomErrorMiddleware(logger *zap.Logger, notFoundPage []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			for _, ginErr := range c.Errors {
				logger.Error("Handler error",
					zap.Error(ginErr.Err),
					zap.String("meta", fmt.Sprint(ginErr.Meta)),
					zap.Int("type", int(ginErr.Type)),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)
			}
			if !c.Writer.Written() {
				c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			}
			return
		}

		status := c.Writer.Status()
		if status == http.StatusNotFound && !c.Writer.Written() {
			if len(notFoundPage) == 0 {
				c.String(http.StatusNotFound, http.StatusText(http.StatusNotFound))
				return
			}
			c.Data(http.StatusNotFound, "text/html; charset=utf-8", notFoundPage)
			return
		}

		if status >= http.StatusInternalServerError {
			logger.Warn("Request resulted in server error status",
				zap.Int("status", status),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
		}
	}
}
