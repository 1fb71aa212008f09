package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"go.uber.org/zap"
)

func TestRabbitMQPublisher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based integration test in short mode")
	}
	ctx := context.Background()

	container, err := rabbitmq.Run(ctx, "rabbitmq:3.12-management-alpine")
	require.NoError(t, err, "Failed to start rabbitmq container")
	defer func() { _ = container.Terminate(ctx) }()

	url, err := container.AmqpURL(ctx)
	require.NoError(t, err)

	conn, err := DialRabbitMQ(ctx, url, zap.NewNop())
	require.NoError(t, err)

	publisher, err := NewRabbitMQPublisher(conn, "sticker_events_test", zap.NewNop())
	require.NoError(t, err)
	defer publisher.Close()

	event := StickerEvent{
		Type:       EventStickerCreated,
		StickerID:  "2024-05-01T10:00:00.000Z",
		Name:       "AI: cat",
		Source:     "generated",
		OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.Publish(ctx, event))

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	var delivery struct {
		body        []byte
		contentType string
		ok          bool
	}
	require.Eventually(t, func() bool {
		msg, ok, err := ch.Get("sticker_events_test", true)
		if err != nil || !ok {
			return false
		}
		delivery.body, delivery.contentType, delivery.ok = msg.Body, msg.ContentType, true
		return true
	}, 5*time.Second, 100*time.Millisecond)

	assert.Equal(t, "application/json", delivery.contentType)
	var got StickerEvent
	require.NoError(t, json.Unmarshal(delivery.body, &got))
	assert.Equal(t, event.Type, got.Type)
	assert.Equal(t, event.StickerID, got.StickerID)
	assert.True(t, event.OccurredAt.Equal(got.OccurredAt))
}

func TestNoopPublisher(t *testing.T) {
	var p EventPublisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), StickerEvent{Type: EventStickerDeleted}))
	assert.NoError(t, p.Close())
}
