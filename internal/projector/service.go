// Package projector consumes reservation events and keeps the read-side caches honest.
package projector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-office-rentals.git/internal/kafka"
	"github.com/ariefcatur/go-office-rentals.git/internal/logger"
	"github.com/ariefcatur/go-office-rentals.git/internal/redisx"
	"github.com/ariefcatur/go-office-rentals.git/internal/reservations"
)

const dedupScope = "projector"

type Service struct {
	Redis *redis.Client
	Log   *logger.Logger
}

// HandleReservationCreated is installed as the consumer handler.
func (s *Service) HandleReservationCreated(ctx context.Context, m kafkago.Message) error {
	var env reservations.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// a poison message would block the partition forever
		s.log().Warn("Dropping undecodable event", "offset", m.Offset, "error", err)
		return nil
	}
	if env.EventType != reservations.EventReservationCreated {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, dedupScope, env.EventID)
	first, err := redisx.MarkOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return fmt.Errorf("dedup %s: %w", env.EventID, err)
	}
	if !first {
		return nil
	}

	p, err := kafkax.UnwrapPayload[reservations.ReservationCreatedPayload](env.Payload)
	if err != nil {
		s.log().Warn("Dropping event with bad payload", "event_id", env.EventID, "error", err)
		return nil
	}

	if err := s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOfficeActiveCount, p.OfficeID)).Err(); err != nil {
		// let the redelivery try again
		_ = s.Redis.Del(ctx, dkey).Err()
		return fmt.Errorf("invalidate count office %d: %w", p.OfficeID, err)
	}

	s.log().Info("Reservation projected",
		"event_id", env.EventID,
		"reservation_id", p.ReservationID,
		"office_id", p.OfficeID,
		"host_id", p.HostID,
	)
	return nil
}

func (s *Service) log() *logger.Logger {
	if s.Log == nil {
		return logger.Nop()
	}
	return s.Log
}
