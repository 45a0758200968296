package kafka

import (
	"context"
	"testing"

	kafka_config "laptoploan/pkg/kafka/config"
	"laptoploan/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducer(t *testing.T) *Producer {
	t.Helper()
	p, err := NewProducer(&kafka_config.Config{
		Brokers:             []string{"localhost:9092"},
		Topic:               "test.reservations",
		ProducerMaxAttempts: 1,
		ProducerCompression: "none",
	}, logger.Discard())
	require.NoError(t, err)
	return p
}

func TestNewProducer_Validation(t *testing.T) {
	log := logger.Discard()

	_, err := NewProducer(nil, log)
	assert.Error(t, err)

	_, err = NewProducer(&kafka_config.Config{Topic: "t"}, log)
	assert.Error(t, err)

	_, err = NewProducer(&kafka_config.Config{Brokers: []string{"localhost:9092"}}, log)
	assert.Error(t, err)
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := testProducer(t)
	defer p.Close()

	err := p.Publish(context.Background(), Message{Value: []byte("{}")})
	assert.ErrorIs(t, err, ErrEmptyKey)

	err = p.Publish(context.Background(), Message{Key: "k"})
	assert.ErrorIs(t, err, ErrEmptyValue)
}

func TestProducer_ClosedProducer(t *testing.T) {
	p := testProducer(t)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	err := p.Publish(context.Background(), Message{Key: "k", Value: []byte("{}")})
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestProducer_MiddlewareOrder(t *testing.T) {
	p := testProducer(t)
	defer p.Close()

	var order []string
	stop := func(name string) ProducerMiddleware {
		return func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
			order = append(order, name)
			assert.Equal(t, "test.reservations", msg.Topic)
			if name == "inner" {
				return nil
			}
			return next(ctx, msg)
		}
	}
	p.Use(stop("outer"))
	p.Use(stop("inner"))

	err := p.Publish(context.Background(), Message{Key: "k", Value: []byte("{}")})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("abc").
		WithValue(map[string]string{"status": "approved"}).
		WithEventType("reservation.approved").
		WithCorrelationID("req-1").
		WithSource("laptoploan").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "abc", msg.Key)
	assert.NotEmpty(t, msg.EventID())
	assert.Equal(t, "reservation.approved", msg.EventType())
	assert.Equal(t, "req-1", msg.CorrelationID())
	assert.NotEmpty(t, msg.Headers[HeaderTimestamp])

	var payload map[string]string
	require.NoError(t, msg.DecodeValue(&payload))
	assert.Equal(t, "approved", payload["status"])
}

func TestMessageBuilder_EncodingError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.Error(t, err)
}

func TestMessageBuilder_EmptyCorrelationIDOmitted(t *testing.T) {
	msg, err := NewMessage().WithKey("k").WithValue(1).WithCorrelationID("").Build()
	require.NoError(t, err)
	_, ok := msg.Headers[HeaderCorrelationID]
	assert.False(t, ok)
}
