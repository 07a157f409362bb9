package audit

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"pricesync/internal/models"

	"github.com/segmentio/kafka-go"
)

const topic = "sync-events"

// Publisher mirrors audit entries to Kafka. A Publisher built with no
// brokers is a no-op, so callers never need to nil-check.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers string) *Publisher {
	if brokers == "" {
		return &Publisher{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: time.Second,
	}

	return &Publisher{writer: writer}
}

func (p *Publisher) Publish(ctx context.Context, entry *models.AuditEntry) error {
	if p.writer == nil {
		return nil
	}

	value, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(entry.StoreID),
		Value: value,
	})
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
