package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/scholarfinder/engine/internal/config"
	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	"github.com/scholarfinder/engine/pkg/errors"
)

// ErrProducerClosed is returned by Publish after Close.
var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "producer closed")

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes event envelopes to Kafka.
type Producer struct {
	writer WriterInterface
	logger logging.Logger
	closed atomic.Bool
	sent   atomic.Int64
	failed atomic.Int64
}

// NewProducer builds a producer against the configured brokers.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.ProducerRetries,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: time.Second,
		WriteTimeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &Producer{writer: writer, logger: log.Named("kafka_producer")}
}

// NewProducerWithWriter wires a fake writer for tests.
func NewProducerWithWriter(w WriterInterface, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Producer{writer: w, logger: log.Named("kafka_producer")}
}

// Publish sends one envelope to the given topic, keyed by event id.
func (p *Producer) Publish(ctx context.Context, topic string, envelope *EventEnvelope) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event envelope")
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(envelope.EventID),
		Value: data,
		Time:  envelope.Timestamp,
	})
	if err != nil {
		p.failed.Add(1)
		p.logger.Error("failed to publish event",
			logging.String("topic", topic),
			logging.String("event_type", envelope.EventType),
			logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to publish event")
	}

	p.sent.Add(1)
	p.logger.Debug("event published",
		logging.String("topic", topic),
		logging.String("event_type", envelope.EventType))
	return nil
}

// PublishEvent wraps payload in an envelope and publishes it.
func (p *Producer) PublishEvent(ctx context.Context, topic, eventType string, payload interface{}) error {
	envelope, err := NewEventEnvelope(eventType, "scholarfinder-engine", payload)
	if err != nil {
		return err
	}
	return p.Publish(ctx, topic, envelope)
}

// Sent reports the number of successfully published events.
func (p *Producer) Sent() int64 { return p.sent.Load() }

// Failed reports the number of failed publish attempts.
func (p *Producer) Failed() int64 { return p.failed.Load() }

// Close flushes and shuts the producer down.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.writer.Close()
}
