package redisx

import "time"

const (
	// Idempotent create: idem:reservation:create:{user_id}:{idempotency_key} -> reservation_id
	KeyIdemReservationCreate = "idem:reservation:create:%d:%s"

	// Cached count of active reservations: office_active_count:{office_id} -> int
	KeyOfficeActiveCount = "office_active_count:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLCountCache  = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
