package booking

import "errors"

// Reason is why a booking attempt did not produce a reservation.
type Reason string

const (
	InvalidOffice         Reason = "InvalidOffice"
	SelfBookingNotAllowed Reason = "SelfBookingNotAllowed"
	StayTooShort          Reason = "StayTooShort"
	DateRangeConflict     Reason = "DateRangeConflict"
	LockTimedOut          Reason = "LockTimedOut"
)

// Retryable is true only for lock contention; domain rejections are final for the same input.
func (r Reason) Retryable() bool {
	return r == LockTimedOut
}

// Message is the user-facing text, attached to the office_id field.
func (r Reason) Message() string {
	switch r {
	case InvalidOffice:
		return "Invalid office_id"
	case SelfBookingNotAllowed:
		return "You cannot make reservation on your own office"
	case StayTooShort:
		return "You cannot make reservation for only 1 day"
	case DateRangeConflict:
		return "You cannot make a reservation during this time"
	case LockTimedOut:
		return "The office is being booked by another request, please try again"
	default:
		return string(r)
	}
}

type Rejection struct {
	Reason Reason
}

func reject(reason Reason) *Rejection {
	return &Rejection{Reason: reason}
}

func (e *Rejection) Error() string {
	return "booking rejected: " + string(e.Reason)
}

// ReasonOf extracts the rejection reason from err, if it carries one.
func ReasonOf(err error) (Reason, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}
