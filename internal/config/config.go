package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"stickerverse/shared/logger"
)

// Поддерживаемые драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite"
	StorageDriverRedis    = "redis"
	StorageDriverPostgres = "postgres"
)

// Поддерживаемые провайдеры генерации изображений.
const (
	ImageProviderGemini   = "gemini"
	ImageProviderOpenAI   = "openai"
	ImageProviderDisabled = "disabled"
)

// Config структура для хранения всей конфигурации приложения.
type Config struct {
	AppEnv     string `env:"APP_ENV" env-default:"development"`
	ServerPort string `env:"SERVER_PORT" env-default:"8080"`

	// Перечитывать шаблоны на каждый запрос
	TemplateDebug bool `env:"TEMPLATE_DEBUG" env-default:"false"`

	// Ключ подписи flash-кук; если пусто, генерируется при старте
	FlashSecret        string        `env:"FLASH_SECRET"`
	SessionIdleTTL     time.Duration `env:"SESSION_IDLE_TTL" env-default:"24h"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`

	Logger    logger.Config
	Storage   StorageConfig
	Generator GeneratorConfig
	RabbitMQ  RabbitMQConfig
}

// StorageConfig настройки key-value хранилища коллекции.
type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" env-default:"sqlite"`

	// По умолчанию $XDG_DATA_HOME/stickerverse/stickers.db
	SQLitePath    string `env:"SQLITE_PATH"`
	RedisAddr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`
	PostgresDSN   string `env:"POSTGRES_DSN"`
}

// GeneratorConfig настройки внешнего сервиса генерации изображений.
type GeneratorConfig struct {
	Provider      string        `env:"IMAGE_PROVIDER" env-default:"gemini"`
	GeminiAPIKey  string        `env:"GEMINI_API_KEY,API_KEY"`
	GeminiModel   string        `env:"GEMINI_IMAGE_MODEL" env-default:"imagen-4.0-generate-001"`
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIModel   string        `env:"OPENAI_IMAGE_MODEL" env-default:"dall-e-3"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	Timeout       time.Duration `env:"IMAGE_GENERATION_TIMEOUT" env-default:"120s"`

	// Минимальный интервал между запросами
	RateInterval time.Duration `env:"IMAGE_GENERATION_RATE_INTERVAL" env-default:"2s"`
	RateBurst    int           `env:"IMAGE_GENERATION_RATE_BURST" env-default:"2"`
}

// RabbitMQConfig конфигурация публикации событий о стикерах. Пустой URL отключает публикацию.
type RabbitMQConfig struct {
	URL       string `env:"RABBITMQ_URL"`
	QueueName string `env:"STICKER_EVENTS_QUEUE" env-default:"sticker_events"`
}

// Load загружает конфигурацию из переменных окружения и .env файла.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку, если файла нет)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize приводит значения к каноничному виду и проверяет обязательные поля.
func (c *Config) normalize() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Generator.Provider = strings.ToLower(strings.TrimSpace(c.Generator.Provider))
	origins := c.CORSAllowedOrigins[:0]
	for _, origin := range c.CORSAllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	c.CORSAllowedOrigins = origins

	// Пустой GEMINI_API_KEY из .env не должен скрывать API_KEY
	if c.Generator.GeminiAPIKey == "" {
		c.Generator.GeminiAPIKey = os.Getenv("API_KEY")
	}

	switch c.Storage.Driver {
	case StorageDriverMemory, StorageDriverSQLite, StorageDriverRedis:
	case StorageDriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Generator.Provider {
	case ImageProviderGemini:
		if c.Generator.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY (or API_KEY) is required for the gemini image provider")
		}
	case ImageProviderOpenAI:
		if c.Generator.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai image provider")
		}
	case ImageProviderDisabled:
	default:
		return fmt.Errorf("unknown IMAGE_PROVIDER %q", c.Generator.Provider)
	}

	if c.Generator.RateBurst < 1 {
		c.Generator.RateBurst = 1
	}

	if c.FlashSecret == "" {
		secret, err := randomSecret(32)
		if err != nil {
			return fmt.Errorf("failed to generate flash secret: %w", err)
		}
		c.FlashSecret = secret
	}
	return nil
}

// IsDevelopment сообщает, запущен ли сервис в режиме разработки.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func randomSecret(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
