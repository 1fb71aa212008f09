package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	maxConnectAttempts = 5
	connectRetryDelay  = 2 * time.Second
)

// RabbitMQPublisher публикует события в durable очередь через default exchange.
type RabbitMQPublisher struct {
	conn      *amqp091.Connection
	ch        *amqp091.Channel
	queueName string
	logger    *zap.Logger
	mu        sync.Mutex
}

var _ EventPublisher = (*RabbitMQPublisher)(nil)

// DialRabbitMQ подключается к брокеру с несколькими попытками.
func DialRabbitMQ(ctx context.Context, url string, logger *zap.Logger) (*amqp091.Connection, error) {
	var lastErr error
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		conn, err := amqp091.Dial(url)
		if err == nil {
			logger.Info("RabbitMQ connected successfully")
			return conn, nil
		}
		lastErr = err
		logger.Warn("Failed to connect to RabbitMQ", zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-time.After(connectRetryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxConnectAttempts, lastErr)
}

// NewRabbitMQPublisher открывает канал и объявляет очередь событий.
func NewRabbitMQPublisher(conn *amqp091.Connection, queueName string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel for publisher: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return &RabbitMQPublisher{
		conn:      conn,
		ch:        ch,
		queueName: queueName,
		logger:    logger.Named("RabbitMQPublisher"),
	}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event StickerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return errors.New("publisher channel is closed")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		"",          // default exchange
		p.queueName, // routing key = имя очереди
		false,       // mandatory
		false,       // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Type:         string(event.Type),
			Timestamp:    event.OccurredAt,
			Body:         body,
			DeliveryMode: amqp091.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	p.logger.Debug("Event published", zap.String("type", string(event.Type)), zap.String("sticker_id", event.StickerID))
	return nil
}

// Close закрывает канал и соединение.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
		p.ch = nil
	}
	if p.conn != nil && !p.conn.IsClosed() {
		errs = append(errs, p.conn.Close())
	}
	p.conn = nil
	return errors.Join(errs...)
}
