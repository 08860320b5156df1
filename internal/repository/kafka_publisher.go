package repository

import (
	"context"

	"DemandCast/internal/domain/models"
	pkgkafka "DemandCast/pkg/kafka"
)

// KafkaPublisher emits prediction events, keyed by category so downstream
// consumers see one category's forecasts in order.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishPrediction(ctx context.Context, ev models.PredictionEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Category), ev)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
