package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-office-rentals.git/internal/reservations"
)

type captured struct {
	key     []byte
	value   []byte
	headers []kafka.Header
}

type capturePublisher struct{ msgs []captured }

func (c *capturePublisher) Publish(key, value []byte, headers ...kafka.Header) {
	c.msgs = append(c.msgs, captured{key: key, value: value, headers: headers})
}

func TestEventPublisher_ReservationCreated(t *testing.T) {
	out := &capturePublisher{}
	p := NewEventPublisher(out, "office-rentals-api")
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	res := reservations.Reservation{
		ID: 5, UserID: 2, OfficeID: 10, Price: 36000, Status: reservations.StatusActive,
		StartDate: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 4, 11, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.ReservationCreated(context.Background(), res, reservations.Office{ID: 10, UserID: 1}))
	require.Len(t, out.msgs, 1)

	msg := out.msgs[0]
	assert.Equal(t, "10", string(msg.key))
	assert.Equal(t, []kafka.Header{
		{Key: HeaderEventType, Value: []byte(reservations.EventReservationCreated)},
		{Key: HeaderEventVersion, Value: []byte("1")},
	}, msg.headers)

	var env reservations.Envelope
	require.NoError(t, json.Unmarshal(msg.value, &env))
	assert.Equal(t, reservations.EventReservationCreated, env.EventType)
	assert.Equal(t, "office-rentals-api", env.Producer)
	assert.Equal(t, "5", env.CorrelationID)
	assert.True(t, env.OccurredAt.Equal(fixed))
	_, err := uuid.Parse(env.EventID)
	assert.NoError(t, err)

	payload, err := UnwrapPayload[reservations.ReservationCreatedPayload](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, reservations.ReservationCreatedPayload{
		ReservationID: 5, OfficeID: 10, UserID: 2, HostID: 1,
		StartDate: "2024-03-02", EndDate: "2024-04-11", Price: 36000,
	}, payload)
}
