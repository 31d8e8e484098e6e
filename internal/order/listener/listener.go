package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-admin-console/config"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderCancelled = "OrderCancelled"
)

// MessageReader is the part of *kafka.Reader the listener uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// OrderView is the order list the listener keeps fresh. order.UseCase
// satisfies it.
type OrderView interface {
	Refresh(ctx context.Context) error
	ByStatus() map[model.OrderStatus][]model.Order
}

// Metrics receives consumed events and the order counts after each refresh.
type Metrics interface {
	OrderEvent(eventType string)
	OrdersByStatus(status string, n int)
}

func NewReader(cfg config.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

type OrderListener struct {
	reader  MessageReader
	orders  OrderView
	metrics Metrics
	logger  logger.ZapLogger
	backoff time.Duration
}

func NewOrderListener(reader MessageReader, orders OrderView, metrics Metrics, logger logger.ZapLogger) *OrderListener {
	return &OrderListener{
		reader:  reader,
		orders:  orders,
		metrics: metrics,
		logger:  logger,
		backoff: time.Second,
	}
}

// Start consumes storefront order events until ctx is done.
func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting Order Kafka Listener")
	for {
		msg, err := l.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Info("Stopping Order Kafka Listener")
				return
			}
			l.logger.Error("Failed to read kafka message", zap.Error(err))
			select {
			case <-ctx.Done():
				l.logger.Info("Stopping Order Kafka Listener")
				return
			case <-time.After(l.backoff):
			}
			continue
		}
		l.processMessage(ctx, msg.Value)
	}
}

type OrderEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Reason string `json:"reason,omitempty"`
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var event OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	switch event.EventType {
	case EventOrderCreated, EventOrderCancelled:
	default:
		return
	}

	if l.metrics != nil {
		l.metrics.OrderEvent(event.EventType)
	}
	l.logger.Info("Processing order event",
		zap.String("event_type", event.EventType),
		zap.String("order_id", event.Payload.ID),
	)

	if err := l.Sync(ctx); err != nil {
		l.logger.Error("Failed to refresh orders after event",
			zap.String("order_id", event.Payload.ID),
			zap.Error(err),
		)
	}
}

// Sync reloads the order list and publishes how many orders sit in each
// status. Counts are left untouched when the reload fails.
func (l *OrderListener) Sync(ctx context.Context) error {
	if err := l.orders.Refresh(ctx); err != nil {
		return err
	}
	if l.metrics == nil {
		return nil
	}
	for status, orders := range l.orders.ByStatus() {
		l.metrics.OrdersByStatus(string(status), len(orders))
	}
	return nil
}
