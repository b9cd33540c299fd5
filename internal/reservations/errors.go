package reservations

import "errors"

var (
	ErrOfficeNotFound      = errors.New("office not found")
	ErrReservationNotFound = errors.New("reservation not found")
)
