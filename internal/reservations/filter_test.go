package reservations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestFilter_Matches(t *testing.T) {
	res := Reservation{
		ID: 1, UserID: 7, OfficeID: 3, Status: StatusActive,
		StartDate: d("2023-03-25"), EndDate: d("2023-04-15"),
	}
	window := rng("2023-03-03", "2023-04-04")
	outside := rng("2023-05-01", "2023-05-02")

	tests := []struct {
		name   string
		filter Filter
		owner  int64
		want   bool
	}{
		{"empty filter", Filter{}, 99, true},
		{"user match", Filter{UserID: ptr(int64(7))}, 99, true},
		{"user mismatch", Filter{UserID: ptr(int64(8))}, 99, false},
		{"office match", Filter{OfficeID: ptr(int64(3))}, 99, true},
		{"office mismatch", Filter{OfficeID: ptr(int64(4))}, 99, false},
		{"status match", Filter{Status: ptr(StatusActive)}, 99, true},
		{"status mismatch", Filter{Status: ptr(StatusCancelled)}, 99, false},
		{"range overlap", Filter{Range: &window}, 99, true},
		{"range outside", Filter{Range: &outside}, 99, false},
		{"host owns office", Filter{HostID: ptr(int64(99))}, 99, true},
		{"host does not own office", Filter{HostID: ptr(int64(98))}, 99, false},
		{"all fields", Filter{UserID: ptr(int64(7)), OfficeID: ptr(int64(3)), Status: ptr(StatusActive), Range: &window, HostID: ptr(int64(99))}, 99, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(res, tt.owner))
		})
	}
}

func TestBuildWhere(t *testing.T) {
	where, args := buildWhere(Filter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	window := rng("2023-03-03", "2023-04-04")
	where, args = buildWhere(Filter{
		UserID: ptr(int64(7)),
		Status: ptr(StatusCancelled),
		Range:  &window,
		HostID: ptr(int64(2)),
	})
	assert.Equal(t, " WHERE r.user_id = $1 AND r.status = $2 AND r.start_date <= $3 AND r.end_date >= $4 AND o.user_id = $5", where)
	assert.Equal(t, []any{int64(7), int16(2), window.End, window.Start, int64(2)}, args)
}

func TestNewPage(t *testing.T) {
	p := NewPage(nil, 0, 0)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 1, p.LastPage)
	assert.NotNil(t, p.Data)

	p = NewPage(make([]Reservation, 20), 41, 2)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 3, p.LastPage)
	assert.Equal(t, PageSize, p.PerPage)

	assert.Equal(t, 0, Offset(1))
	assert.Equal(t, 40, Offset(3))
	assert.Equal(t, 0, Offset(-5))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusActive, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusActive))
	assert.False(t, CanTransition(StatusActive, StatusActive))
	assert.True(t, StatusActive.Valid())
	assert.False(t, Status(9).Valid())
	assert.Equal(t, "cancelled", StatusCancelled.String())
}
