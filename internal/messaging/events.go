package messaging

import (
	"context"
	"time"
)

// EventType - тип события коллекции стикеров.
type EventType string

const (
	EventStickerCreated EventType = "sticker.created"
	EventStickerDeleted EventType = "sticker.deleted"
)

// StickerEvent - сообщение об изменении коллекции.
type StickerEvent struct {
	Type       EventType `json:"type"`
	StickerID  string    `json:"sticker_id"`
	Name       string    `json:"name,omitempty"`
	Source     string    `json:"source,omitempty"` // generated | uploaded, только для sticker.created
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher отправляет события во внешнюю систему.
type EventPublisher interface {
	Publish(ctx context.Context, event StickerEvent) error
	Close() error
}

// NoopPublisher отбрасывает все события. Используется, когда RabbitMQ не настроен.
type NoopPublisher struct{}

var _ EventPublisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, StickerEvent) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
