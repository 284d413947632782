package repository

import (
	"context"
	"fmt"

	"SmartScan/internal/domain/models"
	"SmartScan/pkg/kafka"
)

// KafkaPublisher pushes completed scan results onto a Kafka topic. The
// message key is the reference date, so replays of the same day compact
// cleanly.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaPublisher creates a result publisher for topic.
func NewKafkaPublisher(producer *kafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish sends the ranked result as JSON.
func (p *KafkaPublisher) Publish(ctx context.Context, res *models.RankedResult) error {
	key := []byte(res.ReferenceDate.Format(cacheDateLayout))
	if err := p.producer.Publish(ctx, p.topic, key, res); err != nil {
		return fmt.Errorf("publish scan result: %w", err)
	}
	return nil
}

// Close closes the underlying producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
