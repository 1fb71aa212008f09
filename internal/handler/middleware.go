package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stickerverse/internal/session"
	"stickerverse/shared/models"
)

const sessionCookieName = "sticker_session"

// SessionMiddleware выдает браузеру идентификатор сессии и кладет его в контекст.
// Кука без срока жизни живет до закрытия браузера.
func (h *Handler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = session.NewID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookieName, id, 0, "/", "", h.secureCookies, true)
		}
		c.Set(string(models.SessionContextKey), id)
		c.Set(string(models.AdminContextKey), h.sessions.IsAdmin(id))
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(string(models.SessionContextKey))
}

func isAdmin(c *gin.Context) bool {
	return c.GetBool(string(models.AdminContextKey))
}
