package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink publishes audit events to a Kafka topic, keyed by account id so
// per-account event order is preserved within a partition.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

var _ Sink = (*KafkaSink)(nil)

// NewKafkaSink connects to the given brokers.
func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaSink{client: client, topic: topic}, nil
}

func (s *KafkaSink) Append(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.AccountID),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes pending events and releases the client.
func (s *KafkaSink) Close() {
	s.client.Close()
}
