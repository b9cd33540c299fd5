package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-office-rentals.git/internal/memstore"
	"github.com/ariefcatur/go-office-rentals.git/internal/reservations"
)

func seededQuery(t *testing.T) (*Query, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	store.PutOffice(reservations.Office{ID: 10, UserID: 1})
	store.PutOffice(reservations.Office{ID: 11, UserID: 5})
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 23; i++ {
		store.Seed(reservations.Reservation{
			UserID: 2, OfficeID: 10, Status: reservations.StatusActive,
			StartDate: start.AddDate(0, 0, i*3), EndDate: start.AddDate(0, 0, i*3+1),
		})
	}
	store.Seed(reservations.Reservation{
		UserID: 3, OfficeID: 11, Status: reservations.StatusActive,
		StartDate: start, EndDate: start.AddDate(0, 0, 1),
	})
	return NewQuery(store), store
}

func TestQuery_ListPages(t *testing.T) {
	ctx := context.Background()
	q, _ := seededQuery(t)
	user := int64(2)

	first, err := q.List(ctx, reservations.Filter{UserID: &user}, 1)
	require.NoError(t, err)
	assert.Len(t, first.Data, reservations.PageSize)
	assert.EqualValues(t, 23, first.Total)
	assert.Equal(t, 2, first.LastPage)

	second, err := q.List(ctx, reservations.Filter{UserID: &user}, 2)
	require.NoError(t, err)
	assert.Len(t, second.Data, 3)
	assert.Equal(t, 2, second.CurrentPage)

	again, err := q.List(ctx, reservations.Filter{UserID: &user}, 2)
	require.NoError(t, err)
	assert.Equal(t, second, again, "reads do not change state")

	clamped, err := q.List(ctx, reservations.Filter{UserID: &user}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, clamped.CurrentPage)
}

func TestQuery_HostFilter(t *testing.T) {
	ctx := context.Background()
	q, _ := seededQuery(t)
	host := int64(5)

	page, err := q.List(ctx, reservations.Filter{HostID: &host}, 1)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.EqualValues(t, 3, page.Data[0].UserID)

	nobody := int64(99)
	empty, err := q.List(ctx, reservations.Filter{HostID: &nobody}, 1)
	require.NoError(t, err)
	assert.NotNil(t, empty.Data)
	assert.Empty(t, empty.Data)
	assert.Equal(t, 1, empty.LastPage)
}

func TestQuery_Get(t *testing.T) {
	ctx := context.Background()
	q, _ := seededQuery(t)

	res, err := q.Get(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 10, res.OfficeID)

	_, err = q.Get(ctx, 1000)
	assert.ErrorIs(t, err, reservations.ErrReservationNotFound)
}
