package events

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rawRecorder struct {
	events   []string
	payloads []json.RawMessage
}

func (r *rawRecorder) PublishRaw(event string, payload json.RawMessage) error {
	r.events = append(r.events, event)
	r.payloads = append(r.payloads, payload)
	return nil
}

func TestRelayForwardsEnvelopes(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	target := &rawRecorder{}
	relay := &KafkaRelay{target: target, logger: logger}

	value, err := json.Marshal(Envelope{
		Event:     "consultation:updated",
		Payload:   json.RawMessage(`{"id":"c1","status":"completed"}`),
		EmittedAt: time.Now(),
	})
	require.NoError(t, err)

	relay.relay(kafka.Message{Value: value})
	relay.relay(kafka.Message{Value: []byte("not json")})
	relay.relay(kafka.Message{Value: []byte(`{"payload":{}}`)})

	require.Equal(t, []string{"consultation:updated"}, target.events)
	assert.JSONEq(t, `{"id":"c1","status":"completed"}`, string(target.payloads[0]))
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "dashboard_events")
	assert.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "dashboard_events")
	require.NoError(t, err)
	assert.Equal(t, "dashboard_events", p.writer.Topic)
	assert.NoError(t, p.Close())
}
