package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/example/mrzion/internal/models"
)

// Producer publishes payment events to Kafka.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewProducer connects a synchronous producer to brokers.
func NewProducer(brokers []string, topic string, logger *zap.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	logger.Info("kafka producer initialized", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return NewProducerWith(producer, topic, logger), nil
}

// NewProducerWith wraps an existing sarama producer.
func NewProducerWith(producer sarama.SyncProducer, topic string, logger *zap.Logger) *Producer {
	return &Producer{producer: producer, topic: topic, logger: logger}
}

// Publish sends event keyed by payment id so one payment's events stay in order.
func (p *Producer) Publish(ctx context.Context, event models.PaymentEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.PaymentID.String()),
		Value:     sarama.ByteEncoder(data),
		Timestamp: time.Now(),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return err
	}

	p.logger.Debug("published payment event",
		zap.String("topic", p.topic),
		zap.String("event_type", event.Type),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}

// NoopPublisher drops events when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, models.PaymentEvent) error { return nil }
