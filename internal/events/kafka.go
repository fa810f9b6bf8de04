package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"shop-api/internal/logging"
)

type kafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
	closed atomic.Bool
}

// NewKafka publishes events to topic, keyed by order id so that events of one
// order land on the same partition. Writes are async: Publish returns once the
// message is queued and delivery failures are logged by the writer.
func NewKafka(brokers []string, topic string, logger *zap.Logger) Publisher {
	logger = logging.OrNop(logger)
	p := &kafkaPublisher{logger: logger}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		Async:        true,
		Completion:   p.completed,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Warn("kafka writer", zap.String("detail", fmt.Sprintf(msg, args...)))
		}),
	}
	return p
}

func (p *kafkaPublisher) Publish(ctx context.Context, e Event) error {
	if p.closed.Load() {
		return fmt.Errorf("publish %s: publisher closed", e.Type)
	}
	msg, err := toMessage(e)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

func (p *kafkaPublisher) completed(messages []kafka.Message, err error) {
	for _, m := range messages {
		if err != nil {
			p.logger.Warn("event delivery failed",
				zap.String("type", messageType(m)),
				zap.ByteString("order_id", m.Key),
				zap.Error(err))
			continue
		}
		p.logger.Debug("event published", zap.String("type", messageType(m)), zap.ByteString("order_id", m.Key))
	}
}

func messageType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "type" {
			return string(h.Value)
		}
	}
	return ""
}

func (p *kafkaPublisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

func toMessage(e Event) (kafka.Message, error) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s: %w", e.Type, err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(e.OrderID, 10)),
		Value: body,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	}, nil
}
