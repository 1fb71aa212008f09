package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stickerverse/internal/session"
)

func (h *Handler) showLoginPage(c *gin.Context) {
	if isAdmin(c) {
		redirectHome(c, "")
		return
	}
	c.HTML(http.StatusOK, "login.html", loginPage{basePage: h.newBasePage(c, "Admin Login")})
}

func (h *Handler) handleLogin(c *gin.Context) {
	id := sessionID(c)
	err := h.sessions.Login(id, c.PostForm("password"))
	if err != nil {
		if !errors.Is(err, session.ErrInvalidPassword) {
			_ = c.Error(err).SetMeta("login")
			return
		}
		adminLoginsTotal.WithLabelValues("failure").Inc()
		// Поле пароля всегда очищается
		c.HTML(http.StatusUnauthorized, "login.html", loginPage{
			basePage: h.newBasePage(c, "Admin Login"),
			Error:    msgIncorrectPassword,
		})
		return
	}

	adminLoginsTotal.WithLabelValues("success").Inc()
	h.setFlash(c, flashSuccess, msgAdminActivated)
	redirectHome(c, "")
}

func (h *Handler) handleLogout(c *gin.Context) {
	h.sessions.Logout(sessionID(c))
	h.setFlash(c, flashSuccess, msgAdminDeactivated)
	redirectHome(c, "")
}
