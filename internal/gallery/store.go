package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"stickerverse/internal/messaging"
	"stickerverse/shared/models"
)

// ErrPersist - изменение не удалось сохранить, коллекция осталась прежней.
var ErrPersist = errors.New("failed to persist sticker collection")

// idLayout - ISO 8601 в UTC с миллисекундами.
const idLayout = "2006-01-02T15:04:05.000Z"

// Storage - постоянное хранилище всей коллекции.
type Storage interface {
	Load(ctx context.Context) ([]models.Sticker, error)
	Save(ctx context.Context, stickers []models.Sticker) error
}

// Store хранит упорядоченную коллекцию (новые первыми) и сохраняет ее после каждого изменения.
type Store struct {
	mu        sync.RWMutex
	stickers  []models.Sticker
	lastID    time.Time
	storage   Storage
	publisher messaging.EventPublisher
	now       func() time.Time
	logger    *zap.Logger
}

// Option настраивает Store.
type Option func(*Store)

// WithPublisher задает получателя событий о созданных и удаленных стикерах.
func WithPublisher(p messaging.EventPublisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithClock подменяет источник времени для идентификаторов.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New загружает коллекцию из хранилища.
func New(ctx context.Context, storage Storage, logger *zap.Logger, opts ...Option) (*Store, error) {
	s := &Store{
		storage:   storage,
		publisher: messaging.NoopPublisher{},
		now:       time.Now,
		logger:    logger.Named("GalleryStore"),
	}
	for _, opt := range opts {
		opt(s)
	}

	stickers, err := storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stickers: %w", err)
	}
	s.stickers = models.CloneStickers(stickers)
	s.logger.Info("Sticker collection loaded", zap.Int("count", len(s.stickers)))
	return s, nil
}

// List возвращает копию коллекции в порядке отображения.
func (s *Store) List() []models.Sticker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneStickers(s.stickers)
}

// Len возвращает размер коллекции.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stickers)
}

// Get ищет стикер по идентификатору.
func (s *Store) Get(id string) (models.Sticker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.stickers[i], true
	}
	return models.Sticker{}, false
}

// Add создает стикер с новым уникальным id, ставит его первым и сразу сохраняет коллекцию.
func (s *Store) Add(ctx context.Context, url, name string, source models.StickerSource) (models.Sticker, error) {
	s.mu.Lock()
	sticker := models.Sticker{ID: s.nextID(), URL: url, Name: name}

	updated := make([]models.Sticker, 0, len(s.stickers)+1)
	updated = append(updated, sticker)
	updated = append(updated, s.stickers...)

	if err := s.storage.Save(ctx, updated); err != nil {
		s.mu.Unlock()
		s.logger.Error("Failed to persist new sticker, change rolled back",
			zap.String("sticker_id", sticker.ID),
			zap.Error(err),
		)
		return models.Sticker{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.stickers = updated
	count := len(updated)
	s.mu.Unlock()

	s.logger.Info("Sticker added",
		zap.String("sticker_id", sticker.ID),
		zap.String("source", string(source)),
		zap.Int("count", count),
	)
	s.publish(ctx, messaging.StickerEvent{
		Type:      messaging.EventStickerCreated,
		StickerID: sticker.ID,
		Name:      sticker.Name,
		Source:    string(source),
	})
	return sticker, nil
}

// Remove удаляет первый стикер с указанным id. Без прав администратора ничего не делает.
// Возвращает true, если стикер был удален; неизвестный id не приводит к записи.
func (s *Store) Remove(ctx context.Context, isAdmin bool, id string) (bool, error) {
	if !isAdmin {
		s.logger.Debug("Ignoring delete from non-admin session", zap.String("sticker_id", id))
		return false, nil
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	removed := s.stickers[i]

	updated := make([]models.Sticker, 0, len(s.stickers)-1)
	updated = append(updated, s.stickers[:i]...)
	updated = append(updated, s.stickers[i+1:]...)

	if err := s.storage.Save(ctx, updated); err != nil {
		s.mu.Unlock()
		s.logger.Error("Failed to persist sticker removal, change rolled back",
			zap.String("sticker_id", id),
			zap.Error(err),
		)
		return false, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.stickers = updated
	count := len(updated)
	s.mu.Unlock()

	s.logger.Info("Sticker removed", zap.String("sticker_id", id), zap.Int("count", count))
	s.publish(ctx, messaging.StickerEvent{
		Type:      messaging.EventStickerDeleted,
		StickerID: removed.ID,
		Name:      removed.Name,
	})
	return true, nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.stickers {
		if s.stickers[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID выдает id из текущего времени. Вызывается под s.mu.
// Уже выданные и присутствующие в коллекции значения пропускаются сдвигом на 1 мс.
func (s *Store) nextID() string {
	t := s.now().UTC().Truncate(time.Millisecond)
	if !t.After(s.lastID) {
		t = s.lastID.Add(time.Millisecond)
	}
	for s.indexOf(t.Format(idLayout)) >= 0 {
		t = t.Add(time.Millisecond)
	}
	s.lastID = t
	return t.Format(idLayout)
}

func (s *Store) publish(ctx context.Context, event messaging.StickerEvent) {
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish sticker event",
			zap.String("type", string(event.Type)),
			zap.String("sticker_id", event.StickerID),
			zap.Error(err),
		)
	}
}
