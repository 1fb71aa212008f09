package generator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"stickerverse/internal/config"
)

// ErrGenerationFailed - любая неудача внешнего сервиса генерации.
var ErrGenerationFailed = errors.New("image generation failed")

var (
	generationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stickerverse_image_generation_requests_total",
			Help: "Total number of requests to the image generation service.",
		},
		[]string{"provider", "status"},
	)
	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stickerverse_image_generation_duration_seconds",
			Help:    "Histogram of image generation request durations.",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider"},
	)
)

// ImageGenerator превращает текст запроса в ссылку на изображение (URL или data URI).
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New собирает генератор для настроенного провайдера с ограничением частоты и таймаутом.
func New(cfg config.GeneratorConfig, logger *zap.Logger) (ImageGenerator, error) {
	var (
		provider ImageGenerator
		err      error
	)
	switch cfg.Provider {
	case config.ImageProviderGemini:
		provider, err = NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	case config.ImageProviderOpenAI:
		provider = NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, logger)
	case config.ImageProviderDisabled:
		logger.Warn("Image generation is disabled, every request will fail")
		provider = Disabled{}
	default:
		return nil, fmt.Errorf("unknown image provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Image generator configured",
		zap.String("provider", cfg.Provider),
		zap.Duration("timeout", cfg.Timeout),
		zap.Duration("rate_interval", cfg.RateInterval),
		zap.Int("rate_burst", cfg.RateBurst),
	)
	instrumented := &instrumentedGenerator{
		next:     provider,
		provider: cfg.Provider,
		timeout:  cfg.Timeout,
		logger:   logger.Named("ImageGenerator"),
	}
	return NewRateLimited(instrumented, cfg.RateInterval, cfg.RateBurst), nil
}

// Disabled - генератор, который всегда отказывает. Используется без ключа API.
type Disabled struct{}

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: image provider is disabled", ErrGenerationFailed)
}

// instrumentedGenerator добавляет таймаут, метрики и логирование.
type instrumentedGenerator struct {
	next     ImageGenerator
	provider string
	timeout  time.Duration
	logger   *zap.Logger
}

func (g *instrumentedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	ref, err := g.next.Generate(ctx, prompt)
	elapsed := time.Since(start)
	generationDuration.WithLabelValues(g.provider).Observe(elapsed.Seconds())

	if err != nil {
		generationRequestsTotal.WithLabelValues(g.provider, "error").Inc()
		g.logger.Error("Image generation failed",
			zap.Error(err),
			zap.Duration("duration", elapsed),
			zap.Int("prompt_length", len(prompt)),
		)
		if !errors.Is(err, ErrGenerationFailed) {
			err = fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		return "", err
	}
	if ref == "" {
		generationRequestsTotal.WithLabelValues(g.provider, "error").Inc()
		return "", fmt.Errorf("%w: empty image reference", ErrGenerationFailed)
	}

	generationRequestsTotal.WithLabelValues(g.provider, "success").Inc()
	g.logger.Info("Image generated", zap.Duration("duration", elapsed), zap.Int("ref_size", len(ref)))
	return ref, nil
}

// DataURI кодирует байты изображения в data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
