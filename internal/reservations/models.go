package reservations

import "time"

type ApprovalStatus int16

const (
	ApprovalPending  ApprovalStatus = 1
	ApprovalApproved ApprovalStatus = 2
)

// Office is the part of a listing the booking flow reads.
type Office struct {
	ID              int64
	UserID          int64 // owner (host)
	Title           string
	PricePerDay     int64
	MonthlyDiscount int // percent, 0-100
	ApprovalStatus  ApprovalStatus
	Hidden          bool
}

type Reservation struct {
	ID        int64
	UserID    int64 // booker, never the office owner
	OfficeID  int64
	Price     int64 // fixed at creation
	Status    Status
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Reservation) Range() DateRange {
	return NewDateRange(r.StartDate, r.EndDate)
}
