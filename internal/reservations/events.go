package reservations

import (
	"encoding/json"
	"time"
)

const (
	EventReservationCreated = "ReservationCreated"

	EventVersion = 1
)

type Envelope struct {
	EventID       string          `json:"event_id"`   // uuid
	EventType     string          `json:"event_type"` // one of the Event* constants
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"` // service name, e.g. "office-rentals-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // reservation id
	Payload       json.RawMessage `json:"payload"`
}

type ReservationCreatedPayload struct {
	ReservationID int64  `json:"reservation_id"`
	OfficeID      int64  `json:"office_id"`
	UserID        int64  `json:"user_id"`
	HostID        int64  `json:"host_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Price         int64  `json:"price"`
}

func NewReservationCreatedPayload(r Reservation, hostID int64) ReservationCreatedPayload {
	return ReservationCreatedPayload{
		ReservationID: r.ID,
		OfficeID:      r.OfficeID,
		UserID:        r.UserID,
		HostID:        hostID,
		StartDate:     r.StartDate.Format(DateLayout),
		EndDate:       r.EndDate.Format(DateLayout),
		Price:         r.Price,
	}
}
