package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-office-rentals.git/internal/reservations"
)

func day(s string) time.Time {
	t, _ := time.Parse(reservations.DateLayout, s)
	return t
}

func seed(s *Store, userID, officeID int64, status reservations.Status, start, end string) reservations.Reservation {
	return s.Seed(reservations.Reservation{
		UserID: userID, OfficeID: officeID, Status: status, Price: 100,
		StartDate: day(start), EndDate: day(end),
	})
}

func TestStore_HasActiveConflict(t *testing.T) {
	ctx := context.Background()
	s := New()
	seed(s, 1, 10, reservations.StatusActive, "2024-03-02", "2024-03-15")
	seed(s, 1, 10, reservations.StatusCancelled, "2024-04-01", "2024-04-10")

	candidate := reservations.NewDateRange(day("2024-03-01"), day("2024-03-15"))
	found, err := s.HasActiveConflict(ctx, 10, candidate)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.HasActiveConflict(ctx, 11, candidate)
	require.NoError(t, err)
	assert.False(t, found, "other offices never conflict")

	cancelledOnly := reservations.NewDateRange(day("2024-04-02"), day("2024-04-05"))
	found, err = s.HasActiveConflict(ctx, 10, cancelledOnly)
	require.NoError(t, err)
	assert.False(t, found, "cancelled reservations do not block")
}

// Mirrors the user listing date filter: 4 of 6 of the user's reservations touch the window.
func TestStore_ListReservations_DateWindow(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutOffice(reservations.Office{ID: 10, UserID: 99})
	user := int64(7)

	seed(s, user, 10, reservations.StatusActive, "2023-03-01", "2023-03-15")
	seed(s, user, 10, reservations.StatusActive, "2023-03-25", "2023-04-15")
	seed(s, user, 10, reservations.StatusActive, "2023-03-25", "2023-03-29")
	seed(s, user, 10, reservations.StatusActive, "2023-03-01", "2023-04-15")
	seed(s, 8, 10, reservations.StatusActive, "2023-03-25", "2023-03-29")
	seed(s, user, 10, reservations.StatusActive, "2023-02-25", "2023-03-01")
	seed(s, user, 10, reservations.StatusActive, "2023-05-01", "2023-05-02")

	window := reservations.NewDateRange(day("2023-03-03"), day("2023-04-04"))
	rows, total, err := s.ListReservations(ctx, reservations.Filter{UserID: &user, Range: &window}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, rows, 4)
}

func TestStore_ListReservations_HostAndPaging(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutOffice(reservations.Office{ID: 10, UserID: 99})
	s.PutOffice(reservations.Office{ID: 11, UserID: 98})
	for i := 0; i < 25; i++ {
		seed(s, 7, 10, reservations.StatusActive, "2024-01-01", "2024-01-02")
	}
	seed(s, 7, 11, reservations.StatusActive, "2024-01-01", "2024-01-02")

	host := int64(99)
	first, total, err := s.ListReservations(ctx, reservations.Filter{HostID: &host}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	assert.Len(t, first, 20)
	assert.EqualValues(t, 1, first[0].ID)

	second, _, err := s.ListReservations(ctx, reservations.Filter{HostID: &host}, 20, 20)
	require.NoError(t, err)
	assert.Len(t, second, 5)

	beyond, _, err := s.ListReservations(ctx, reservations.Filter{HostID: &host}, 20, 40)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	res := &reservations.Reservation{UserID: 1, OfficeID: 2, Status: reservations.StatusActive}
	require.NoError(t, s.CreateReservation(ctx, res))
	assert.NotZero(t, res.ID)
	assert.False(t, res.CreatedAt.IsZero())

	got, err := s.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, *res, got)

	_, err = s.GetReservation(ctx, 404)
	assert.ErrorIs(t, err, reservations.ErrReservationNotFound)

	_, err = s.FindOffice(ctx, 2)
	assert.ErrorIs(t, err, reservations.ErrOfficeNotFound)

	n, err := s.CountActiveReservations(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().CreateReservation(ctx, &reservations.Reservation{})
	assert.ErrorIs(t, err, context.Canceled)
}
