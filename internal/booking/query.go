package booking

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-office-rentals.git/internal/reservations"
)

type ReservationLister interface {
	ListReservations(ctx context.Context, f reservations.Filter, limit, offset int) ([]reservations.Reservation, int64, error)
	GetReservation(ctx context.Context, id int64) (reservations.Reservation, error)
}

// Query is the read side of reservations. It never takes booking locks, so a page may
// miss a reservation that is being written at the same moment.
type Query struct {
	store ReservationLister
}

func NewQuery(store ReservationLister) *Query {
	return &Query{store: store}
}

func (q *Query) List(ctx context.Context, f reservations.Filter, page int) (reservations.Page, error) {
	page = reservations.NormalizePage(page)
	rows, total, err := q.store.ListReservations(ctx, f, reservations.PageSize, reservations.Offset(page))
	if err != nil {
		return reservations.Page{}, fmt.Errorf("list reservations page %d: %w", page, err)
	}
	return reservations.NewPage(rows, total, page), nil
}

func (q *Query) Get(ctx context.Context, id int64) (reservations.Reservation, error) {
	return q.store.GetReservation(ctx, id)
}
