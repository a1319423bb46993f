package repository

import (
	"context"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
	pkgkafka "MarketBoard/pkg/kafka"
)

// KafkaActivityPublisher publishes view events keyed by symbol.
type KafkaActivityPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaActivityPublisher(producer *pkgkafka.Producer, topic string) *KafkaActivityPublisher {
	return &KafkaActivityPublisher{producer: producer, topic: topic}
}

var _ domrepo.ActivityPublisher = (*KafkaActivityPublisher)(nil)

func (p *KafkaActivityPublisher) Publish(ctx context.Context, a *models.Activity) error {
	return p.producer.Publish(ctx, p.topic, []byte(a.Symbol), a)
}

func (p *KafkaActivityPublisher) PublishBatch(ctx context.Context, events []*models.Activity) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(events))
	for _, a := range events {
		if a == nil {
			continue
		}
		msgs = append(msgs, pkgkafka.Message{Key: []byte(a.Symbol), Value: a})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

// Close is a no-op; the producer is shared and closed by the app.
func (p *KafkaActivityPublisher) Close() error { return nil }
