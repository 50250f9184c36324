package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jsphweid/theorytab/model"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes song records as json, keyed by song url.
type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, record *model.SongRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return err
	}
	key := record.URL
	if key == "" {
		key = uuid.New().String()
	}
	return p.w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value})
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
