package kafka

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/trace"

	"github.com/ariefcatur/go-office-rentals.git/internal/reservations"
)

const (
	HeaderEventType    = "x-event-type"
	HeaderEventVersion = "x-event-version"
)

// MessagePublisher is satisfied by *Producer.
type MessagePublisher interface {
	Publish(key, value []byte, headers ...kafka.Header)
}

// EventPublisher turns created reservations into ReservationCreated envelopes.
type EventPublisher struct {
	Out         MessagePublisher
	ServiceName string
	now         func() time.Time
}

func NewEventPublisher(out MessagePublisher, serviceName string) *EventPublisher {
	return &EventPublisher{Out: out, ServiceName: serviceName, now: time.Now}
}

func (p *EventPublisher) ReservationCreated(ctx context.Context, res reservations.Reservation, office reservations.Office) error {
	var traceID string
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}
	ev := reservations.Envelope{
		EventID:       uuid.NewString(),
		EventType:     reservations.EventReservationCreated,
		EventVersion:  reservations.EventVersion,
		OccurredAt:    p.now().UTC(),
		Producer:      p.ServiceName,
		TraceID:       traceID,
		CorrelationID: strconv.FormatInt(res.ID, 10),
		Payload:       MustMarshal(reservations.NewReservationCreatedPayload(res, office.UserID)),
	}
	p.Out.Publish(reservations.PartitionKey(res.OfficeID), MustMarshal(ev),
		kafka.Header{Key: HeaderEventType, Value: []byte(reservations.EventReservationCreated)},
		kafka.Header{Key: HeaderEventVersion, Value: []byte(strconv.Itoa(reservations.EventVersion))},
	)
	return nil
}
