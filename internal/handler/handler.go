package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"stickerverse/internal/gallery"
	"stickerverse/internal/generator"
	"stickerverse/internal/session"
	"stickerverse/shared/models"
)

// Options - настройки HTTP слоя.
type Options struct {
	FlashSecret        string
	SecureCookies      bool
	CORSAllowedOrigins []string
}

// Handler обрабатывает HTTP запросы галереи.
type Handler struct {
	gallery       *gallery.Store
	sessions      *session.Manager
	generator     generator.ImageGenerator
	flashSecret   []byte
	secureCookies bool
	corsOrigins   []string
	now           func() time.Time
	logger        *zap.Logger
}

// NewHandler создает Handler.
func NewHandler(
	store *gallery.Store,
	sessions *session.Manager,
	gen generator.ImageGenerator,
	opts Options,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		gallery:       store,
		sessions:      sessions,
		generator:     gen,
		flashSecret:   []byte(opts.FlashSecret),
		secureCookies: opts.SecureCookies,
		corsOrigins:   opts.CORSAllowedOrigins,
		now:           time.Now,
		logger:        logger.Named("Handler"),
	}
}

// RegisterRoutes регистрирует все маршруты сервиса.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(cors.New(h.corsConfig()))
	api.GET("/stickers", h.listStickersAPI)
	api.GET("/stickers/:id", h.getStickerAPI)

	web := router.Group("/")
	web.Use(h.SessionMiddleware())
	{
		web.GET("/", h.showGallery)

		web.POST("/generate", h.generateSticker)
		web.POST("/generate/save", h.saveGeneratedSticker)
		web.POST("/generate/discard", h.discardGeneratedSticker)

		web.POST("/stickers/upload", h.uploadSticker)
		web.POST("/stickers/:id/delete", h.deleteSticker)
		web.GET("/stickers/:id/download", h.downloadSticker)

		web.GET("/admin/login", h.showLoginPage)
		web.POST("/admin/login", h.handleLogin)
		web.POST("/admin/logout", h.handleLogout)
	}
}

func (h *Handler) corsConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}

	allowAll := len(h.corsOrigins) == 0
	for _, origin := range h.corsOrigins {
		if origin == "*" {
			allowAll = true
		}
	}
	if allowAll {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = h.corsOrigins
	}
	return corsConfig
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok", Stickers: h.gallery.Len()})
}

func (h *Handler) listStickersAPI(c *gin.Context) {
	c.JSON(http.StatusOK, h.gallery.List())
}

func (h *Handler) getStickerAPI(c *gin.Context) {
	sticker, ok := h.gallery.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "sticker not found"})
		return
	}
	c.JSON(http.StatusOK, sticker)
}

// redirectHome отправляет браузер на главную после POST.
func redirectHome(c *gin.Context, anchor string) {
	target := "/"
	if anchor != "" {
		target += "#" + anchor
	}
	c.Redirect(http.StatusSeeOther, target)
}
