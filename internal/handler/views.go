package handler

import (
	"github.com/gin-gonic/gin"

	"stickerverse/internal/generator"
	"stickerverse/internal/session"
	"stickerverse/internal/web"
	"stickerverse/shared/models"
)

type basePage struct {
	Title   string
	Theme   web.Theme
	Year    int
	IsAdmin bool
	Flash   *FlashMessage
}

type generateForm struct {
	Prompt string
	Style  generator.Style
	Mood   generator.Mood
}

type indexPage struct {
	basePage
	Stickers      []models.Sticker
	Styles        []generator.Style
	Moods         []generator.Mood
	Form          generateForm
	Preview       *session.Preview
	Generating    bool
	GenerateError string
	UploadError   string
}

type loginPage struct {
	basePage
	Error string
}

// newBasePage собирает общие данные layout. Тема считается по часу сервера.
func (h *Handler) newBasePage(c *gin.Context, title string) basePage {
	now := h.now()
	return basePage{
		Title:   title,
		Theme:   web.ThemeForHour(now.Hour()),
		Year:    now.Year(),
		IsAdmin: h.sessions.IsAdmin(sessionID(c)),
		Flash:   h.popFlash(c),
	}
}

// newIndexPage собирает главную страницу из текущего состояния сессии и галереи.
func (h *Handler) newIndexPage(c *gin.Context) indexPage {
	id := sessionID(c)
	state := h.sessions.Snapshot(id)
	return indexPage{
		basePage:   h.newBasePage(c, ""),
		Stickers:   h.gallery.List(),
		Styles:     generator.Styles(),
		Moods:      generator.Moods(),
		Form:       generateForm{Style: generator.DefaultStyle, Mood: generator.DefaultMood},
		Preview:    state.Preview,
		Generating: state.Generating,
	}
}

func (h *Handler) renderIndex(c *gin.Context, status int, page indexPage) {
	c.HTML(status, "index.html", page)
}
