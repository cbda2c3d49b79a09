package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Envelope is the Kafka record value carrying one real-time event.
type Envelope struct {
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	EmittedAt time.Time       `json:"emittedAt"`
}

// KafkaPublisher writes events to a topic so every API instance can relay
// them to its own connected dashboards.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one Kafka broker is required")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: writer}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	value, err := json.Marshal(Envelope{Event: event, Payload: raw, EmittedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal %s envelope: %w", event, err)
	}

	msg := kafka.Message{
		Key:   []byte(event),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// RawPublisher accepts events whose payload is already JSON encoded.
type RawPublisher interface {
	PublishRaw(event string, payload json.RawMessage) error
}

// KafkaRelay consumes the event topic and hands every record to a local
// publisher, usually the Hub. Each relay uses its own consumer group so
// every instance sees every event.
type KafkaRelay struct {
	reader *kafka.Reader
	target RawPublisher
	logger *logrus.Logger
}

func NewKafkaRelay(brokers []string, topic string, target RawPublisher, logger *logrus.Logger) *KafkaRelay {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     "dashboard-relay-" + uuid.New().String(),
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    1 << 20,
		MaxWait:     500 * time.Millisecond,
	})
	return &KafkaRelay{reader: reader, target: target, logger: logger}
}

// Run relays records until ctx ends or the reader is closed.
func (r *KafkaRelay) Run(ctx context.Context) error {
	for {
		msg, err := r.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read event: %w", err)
		}
		r.relay(msg)
	}
}

func (r *KafkaRelay) relay(msg kafka.Message) {
	var env Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil || env.Event == "" {
		r.logger.WithFields(logrus.Fields{"offset": msg.Offset, "error": err}).Warn("skipping malformed event record")
		return
	}
	if err := r.target.PublishRaw(env.Event, env.Payload); err != nil {
		r.logger.WithFields(logrus.Fields{"event": env.Event, "error": err}).Warn("failed to relay event")
	}
}

func (r *KafkaRelay) Close() error {
	return r.reader.Close()
}
