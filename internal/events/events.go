// Package events publishes reservation lifecycle changes to Kafka.
package events

import (
	"context"
	"time"

	"laptoploan/pkg/kafka"
	"laptoploan/pkg/logger"
	"laptoploan/pkg/middleware"
	"laptoploan/pkg/model"
)

type Type string

const (
	ReservationCreated       Type = "reservation.created"
	ReservationApproved      Type = "reservation.approved"
	ReservationRejected      Type = "reservation.rejected"
	ReservationReturned      Type = "reservation.returned"
	ReservationOverdueClosed Type = "reservation.overdue_closed"
)

const (
	source        = "laptoploan"
	schemaVersion = "1"
)

type ReservationEvent struct {
	Type          Type                    `json:"type"`
	ReservationID string                  `json:"reservation_id"`
	StudentID     string                  `json:"student_id"`
	Date          string                  `json:"date"`
	TimeSlot      model.TimeSlot          `json:"time_slot"`
	Status        model.ReservationStatus `json:"status"`
	OverdueCount  int                     `json:"overdue_count"`
	RejectReason  string                  `json:"reject_reason,omitempty"`
	OccurredAt    time.Time               `json:"occurred_at"`
}

// Publisher records reservation transitions. Implementations never fail
// the caller; delivery problems are logged.
type Publisher interface {
	PublishReservation(ctx context.Context, eventType Type, r *model.Reservation)
}

type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaPublisher struct {
	producer MessagePublisher
	timeout  time.Duration
	log      *logger.Logger
	now      func() time.Time
}

func NewKafkaPublisher(producer MessagePublisher, timeout time.Duration, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		timeout:  timeout,
		log:      log,
		now:      time.Now,
	}
}

func (p *KafkaPublisher) PublishReservation(ctx context.Context, eventType Type, r *model.Reservation) {
	if r == nil {
		return
	}

	event := ReservationEvent{
		Type:          eventType,
		ReservationID: r.ID,
		StudentID:     r.StudentID,
		Date:          r.Date,
		TimeSlot:      r.TimeSlot,
		Status:        r.Status,
		OverdueCount:  r.OverdueCount,
		RejectReason:  r.RejectReason,
		OccurredAt:    p.now().UTC(),
	}

	msg, err := kafka.NewMessage().
		WithKey(r.ID).
		WithValue(event).
		WithTimestamp(event.OccurredAt).
		WithEventType(string(eventType)).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		Build()
	if err != nil {
		p.log.Error("Failed to build reservation event", "type", eventType, "reservation_id", r.ID, "error", err)
		return
	}

	// the request may finish before an async write is accepted
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish reservation event",
			"type", eventType,
			"reservation_id", r.ID,
			"error", err,
		)
	}
}

// Nop discards events. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishReservation(context.Context, Type, *model.Reservation) {}
