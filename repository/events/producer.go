// Package eventsrepo publishes domain events to Kafka. Publishing is
// best-effort: callers log failures and never roll back a DB transaction
// because of the broker.
package eventsrepo

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/segmentio/kafka-go"
)

const (
	TopicOrderCreated        = "orders.created"
	TopicOrderSettled        = "orders.settled"
	TopicWithdrawalRequested = "withdrawals.requested"
	TopicWithdrawalCompleted = "withdrawals.completed"
)

type Producer interface {
	Publish(ctx context.Context, topic string, key int64, event any) error
	Close() error
}

type producer struct {
	w *kafka.Writer
}

func NewKafka(brokers []string) Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		Async:        true,
		RequiredAcks: kafka.RequireOne,
	}
	return &producer{w: w}
}

func (p *producer) Publish(ctx context.Context, topic string, key int64, event any) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.FormatInt(key, 10)),
		Value: value,
	})
	if err != nil {
		slog.Error("kafka publish failed", "topic", topic, "key", key, "err", err)
	}
	return err
}

func (p *producer) Close() error { return p.w.Close() }

// Nop is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, topic string, key int64, event any) error { return nil }
func (Nop) Close() error                                                          { return nil }
