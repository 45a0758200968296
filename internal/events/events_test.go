package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"laptoploan/pkg/kafka"
	"laptoploan/pkg/logger"
	"laptoploan/pkg/middleware"
	"laptoploan/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProducer struct {
	messages []kafka.Message
	err      error
	ctxErr   error
}

func (m *mockProducer) Publish(ctx context.Context, msg kafka.Message) error {
	m.ctxErr = ctx.Err()
	m.messages = append(m.messages, msg)
	return m.err
}

func TestKafkaPublisher_PublishReservation(t *testing.T) {
	producer := &mockProducer{}
	p := NewKafkaPublisher(producer, time.Second, logger.Discard())
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	p.PublishReservation(ctx, ReservationApproved, &model.Reservation{
		ID:        "665f1c2e8b3e4a0012345678",
		StudentID: "S1",
		Date:      "2024-05-01",
		TimeSlot:  model.Morning,
		Status:    model.StatusApproved,
	})

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, "665f1c2e8b3e4a0012345678", msg.Key)
	assert.Equal(t, string(ReservationApproved), msg.EventType())
	assert.Equal(t, "req-42", msg.CorrelationID())

	var event ReservationEvent
	require.NoError(t, msg.DecodeValue(&event))
	assert.Equal(t, ReservationApproved, event.Type)
	assert.Equal(t, model.StatusApproved, event.Status)
	assert.True(t, fixed.Equal(event.OccurredAt))
}

func TestKafkaPublisher_SurvivesCancelledRequest(t *testing.T) {
	producer := &mockProducer{}
	p := NewKafkaPublisher(producer, time.Second, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.PublishReservation(ctx, ReservationCreated, &model.Reservation{ID: "id"})

	require.Len(t, producer.messages, 1)
	assert.NoError(t, producer.ctxErr)
}

func TestKafkaPublisher_ErrorsAreSwallowed(t *testing.T) {
	producer := &mockProducer{err: errors.New("broker down")}
	p := NewKafkaPublisher(producer, time.Second, logger.Discard())

	assert.NotPanics(t, func() {
		p.PublishReservation(context.Background(), ReservationReturned, &model.Reservation{ID: "id"})
		p.PublishReservation(context.Background(), ReservationReturned, nil)
	})
	assert.Len(t, producer.messages, 1)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NotPanics(t, func() {
		p.PublishReservation(context.Background(), ReservationCreated, &model.Reservation{})
	})
}
