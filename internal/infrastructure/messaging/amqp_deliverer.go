package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/notification"
	"github.com/mead/backend/internal/infrastructure/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DefaultExchange is the topic exchange notifications are published to
const DefaultExchange = "marketplace.notifications"

// publisher is the subset of *amqp.Channel used for delivery
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPDeliverer publishes notifications to a RabbitMQ topic exchange
type AMQPDeliverer struct {
	conn     *amqp.Connection
	channel  publisher
	exchange string
	logger   *zap.Logger
	mu       sync.Mutex
}

// NewAMQPDeliverer dials the broker and declares the exchange
func NewAMQPDeliverer(cfg config.RabbitMQConfig, logger *zap.Logger) (*AMQPDeliverer, error) {
	amqpURL, err := sanitizeAMQPURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	d := newAMQPDeliverer(ch, exchange, logger)
	d.conn = conn
	return d, nil
}

func newAMQPDeliverer(ch publisher, exchange string, logger *zap.Logger) *AMQPDeliverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPDeliverer{
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}
}

// Deliver implements notification.Deliverer
func (d *AMQPDeliverer) Deliver(ctx context.Context, record *notification.Record, recipients []uuid.UUID) error {
	envelope, err := NewEnvelope(record, recipients)
	if err != nil {
		return err
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	key := RoutingKey(record.Kind)
	d.mu.Lock()
	err = d.channel.PublishWithContext(ctx, d.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    record.ID.String(),
		Timestamp:    record.CreatedAt,
		Body:         body,
	})
	d.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish notification %s: %w", record.ID, err)
	}

	d.logger.Debug("notification published",
		zap.String("exchange", d.exchange),
		zap.String("routing_key", key),
		zap.String("notification_id", record.ID.String()),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}

// Close closes the broker connection
func (d *AMQPDeliverer) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", fmt.Errorf("invalid AMQP URL: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

var _ notification.Deliverer = (*AMQPDeliverer)(nil)
