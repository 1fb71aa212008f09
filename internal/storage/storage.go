package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"stickerverse/shared/models"
)

// StickersKey - фиксированный ключ, под которым хранится вся коллекция.
const StickersKey = "stickers"

var (
	// ErrKeyNotFound возвращается KVStore.Get, если ключ отсутствует.
	ErrKeyNotFound = errors.New("key not found")
	// ErrStorageRead - сохраненное значение не удалось разобрать.
	ErrStorageRead = errors.New("stored stickers are malformed")
)

// KVStore - минимальное key-value хранилище строковых значений.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// SeedStickers возвращает набор примеров, используемый при пустом или поврежденном хранилище.
func SeedStickers() []models.Sticker {
	return []models.Sticker{
		{ID: "1", URL: "https://picsum.photos/seed/sticker1/200", Name: "Sample Sticker 1"},
		{ID: "2", URL: "https://picsum.photos/seed/sticker2/200", Name: "Sample Sticker 2"},
		{ID: "3", URL: "https://picsum.photos/seed/sticker3/200", Name: "Sample Sticker 3"},
	}
}

// StickerStorage читает и пишет список стикеров целиком под ключом StickersKey.
type StickerStorage struct {
	kv     KVStore
	logger *zap.Logger
}

// NewStickerStorage создает адаптер поверх KVStore.
func NewStickerStorage(kv KVStore, logger *zap.Logger) *StickerStorage {
	return &StickerStorage{
		kv:     kv,
		logger: logger.Named("StickerStorage"),
	}
}

// Load возвращает сохраненную коллекцию.
// Отсутствующее или поврежденное значение заменяется набором примеров; ошибка разбора
// только логируется. Ошибки самого хранилища возвращаются вызывающему.
func (s *StickerStorage) Load(ctx context.Context) ([]models.Sticker, error) {
	raw, err := s.kv.Get(ctx, StickersKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			s.logger.Info("No stored stickers found, using seed data")
			return SeedStickers(), nil
		}
		return nil, fmt.Errorf("failed to read %q from storage: %w", StickersKey, err)
	}

	stickers, err := decodeStickers(raw)
	if err != nil {
		s.logger.Warn("Failed to parse stickers from storage, using seed data",
			zap.Error(err),
			zap.Int("raw_size", len(raw)),
		)
		return SeedStickers(), nil
	}

	s.logger.Debug("Stickers loaded from storage", zap.Int("count", len(stickers)))
	return stickers, nil
}

// Save перезаписывает сохраненное значение полной коллекцией.
func (s *StickerStorage) Save(ctx context.Context, stickers []models.Sticker) error {
	raw, err := encodeStickers(stickers)
	if err != nil {
		return fmt.Errorf("failed to encode stickers: %w", err)
	}
	if err := s.kv.Set(ctx, StickersKey, raw); err != nil {
		s.logger.Error("Failed to persist stickers", zap.Error(err), zap.Int("count", len(stickers)))
		return fmt.Errorf("failed to write %q to storage: %w", StickersKey, err)
	}
	s.logger.Debug("Stickers persisted", zap.Int("count", len(stickers)), zap.Int("size_bytes", len(raw)))
	return nil
}

// Close закрывает нижележащее хранилище.
func (s *StickerStorage) Close() error {
	return s.kv.Close()
}

func encodeStickers(stickers []models.Sticker) ([]byte, error) {
	if stickers == nil {
		stickers = []models.Sticker{}
	}
	return json.Marshal(stickers)
}

func decodeStickers(raw []byte) ([]models.Sticker, error) {
	var stickers []models.Sticker
	if err := json.Unmarshal(raw, &stickers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	// "null" разбирается без ошибки, но не является списком
	if stickers == nil {
		return nil, fmt.Errorf("%w: value is not a list", ErrStorageRead)
	}
	return stickers, nil
}
