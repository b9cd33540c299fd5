package projector

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/ariefcatur/go-office-rentals.git/internal/kafka"
	"github.com/ariefcatur/go-office-rentals.git/internal/redisx"
	"github.com/ariefcatur/go-office-rentals.git/internal/reservations"
)

func newService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return &Service{Redis: rdb}, mr
}

func createdMessage(eventID string, officeID int64) kafkago.Message {
	env := reservations.Envelope{
		EventID:      eventID,
		EventType:    reservations.EventReservationCreated,
		EventVersion: reservations.EventVersion,
		OccurredAt:   time.Now().UTC(),
		Producer:     "test",
		Payload: kafkax.MustMarshal(reservations.ReservationCreatedPayload{
			ReservationID: 1, OfficeID: officeID, UserID: 2, HostID: 3,
			StartDate: "2024-03-02", EndDate: "2024-03-05", Price: 3000,
		}),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandleReservationCreated_InvalidatesCount(t *testing.T) {
	ctx := context.Background()
	s, mr := newService(t)
	countKey := fmt.Sprintf(redisx.KeyOfficeActiveCount, 10)
	require.NoError(t, mr.Set(countKey, "4"))

	require.NoError(t, s.HandleReservationCreated(ctx, createdMessage("ev-1", 10)))

	assert.False(t, mr.Exists(countKey))
	assert.True(t, mr.Exists(fmt.Sprintf(redisx.KeyDedup, dedupScope, "ev-1")))
}

func TestHandleReservationCreated_Dedup(t *testing.T) {
	ctx := context.Background()
	s, mr := newService(t)
	countKey := fmt.Sprintf(redisx.KeyOfficeActiveCount, 10)

	require.NoError(t, s.HandleReservationCreated(ctx, createdMessage("ev-1", 10)))

	// a count cached after the first delivery survives a redelivery of the same event
	require.NoError(t, mr.Set(countKey, "5"))
	require.NoError(t, s.HandleReservationCreated(ctx, createdMessage("ev-1", 10)))
	assert.True(t, mr.Exists(countKey))

	require.NoError(t, s.HandleReservationCreated(ctx, createdMessage("ev-2", 10)))
	assert.False(t, mr.Exists(countKey))
}

func TestHandleReservationCreated_IgnoresOtherEvents(t *testing.T) {
	ctx := context.Background()
	s, mr := newService(t)

	env := reservations.Envelope{EventID: "ev-9", EventType: "OfficeUpdated"}
	require.NoError(t, s.HandleReservationCreated(ctx, kafkago.Message{Value: kafkax.MustMarshal(env)}))
	require.NoError(t, s.HandleReservationCreated(ctx, kafkago.Message{Value: []byte("not json")}))
	assert.Empty(t, mr.Keys())
}

func TestHandleReservationCreated_RedisDown(t *testing.T) {
	ctx := context.Background()
	s, mr := newService(t)
	mr.Close()

	assert.Error(t, s.HandleReservationCreated(ctx, createdMessage("ev-1", 10)))
}
