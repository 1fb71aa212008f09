package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stickerverse/internal/config"
	"stickerverse/internal/gallery"
	"stickerverse/internal/generator"
	"stickerverse/internal/handler"
	"stickerverse/internal/messaging"
	"stickerverse/internal/session"
	"stickerverse/internal/storage"
	"stickerverse/internal/web"
	sharedLogger "stickerverse/shared/logger"
	sharedMiddleware "stickerverse/shared/middleware"
)

// devTemplatesDir - шаблоны на диске для TEMPLATE_DEBUG (запуск из корня репозитория).
const devTemplatesDir = "internal/web"

func main() {
	// --- Загрузка конфигурации ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// --- Инициализация логгера ---
	logger, err := sharedLogger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Не удалось инициализировать логгер: %v", err)
	}
	defer logger.Sync()
	logger.Info("Starting StickerVerse...",
		zap.String("env", cfg.AppEnv),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("image_provider", cfg.Generator.Provider),
	)

	ctx := context.Background()

	// --- Хранилище ---
	kv, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	stickerStorage := storage.NewStickerStorage(kv, logger)
	defer func() {
		if err := stickerStorage.Close(); err != nil {
			logger.Error("Failed to close storage", zap.Error(err))
		}
	}()

	// --- События ---
	var publisher messaging.EventPublisher = messaging.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		conn, err := messaging.DialRabbitMQ(ctx, cfg.RabbitMQ.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		rabbitPublisher, err := messaging.NewRabbitMQPublisher(conn, cfg.RabbitMQ.QueueName, logger)
		if err != nil {
			logger.Fatal("Failed to create sticker event publisher", zap.Error(err))
		}
		publisher = rabbitPublisher
		logger.Info("Sticker events will be published", zap.String("queue", cfg.RabbitMQ.QueueName))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", zap.Error(err))
		}
	}()

	// --- Галерея, сессии, генератор ---
	store, err := gallery.New(ctx, stickerStorage, logger, gallery.WithPublisher(publisher))
	if err != nil {
		logger.Fatal("Failed to load sticker collection", zap.Error(err))
	}
	sessions := session.NewManager(cfg.SessionIdleTTL, logger)
	imageGenerator, err := generator.New(cfg.Generator, logger)
	if err != nil {
		logger.Fatal("Failed to create image generator", zap.Error(err))
	}

	// --- Шаблоны ---
	var templatesFS fs.FS = web.FS()
	if cfg.TemplateDebug {
		templatesFS = os.DirFS(devTemplatesDir)
	}
	renderer, err := web.NewTemplateRenderer(templatesFS, cfg.TemplateDebug, logger)
	if err != nil {
		logger.Fatal("Failed to load templates", zap.Error(err))
	}
	notFoundPage, err := web.NotFoundPage(web.FS())
	if err != nil {
		logger.Fatal("Failed to load 404 page", zap.Error(err))
	}

	h := handler.NewHandler(store, sessions, imageGenerator, handler.Options{
		FlashSecret:        cfg.FlashSecret,
		SecureCookies:      !cfg.IsDevelopment(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, logger)

	// --- Настройка Gin ---
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(sharedMiddleware.RequestID())
	router.Use(sharedMiddleware.GinZapLogger(logger))
	router.Use(handler.CustomErrorMiddleware(logger, notFoundPage))
	router.HTMLRender = renderer
	// Загрузка до 2MB плюс заголовки формы
	router.MaxMultipartMemory = 4 << 20

	h.RegisterRoutes(router)

	// --- Запуск HTTP сервера ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}
