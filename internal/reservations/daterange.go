package reservations

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for reservation dates.
const DateLayout = "2006-01-02"

// DateRange is an inclusive [Start, End] pair of calendar days.
// Both bounds are kept at UTC midnight.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDateRange drops the time-of-day part of both bounds. Callers guarantee end >= start.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: day(start), End: day(end)}
}

func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("parse start_date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("parse end_date %q: %w", end, err)
	}
	if e.Before(s) {
		return DateRange{}, fmt.Errorf("end_date %s is before start_date %s", end, start)
	}
	return NewDateRange(s, e), nil
}

// Overlaps reports whether the two inclusive ranges share at least one day.
// Containment in either direction counts as an overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

// NumberOfDays is the inclusive day count: a range from day 1 to day 1 is one day.
func (r DateRange) NumberOfDays() int {
	return r.Nights() + 1
}

// Nights is the number of elapsed days between Start and End.
func (r DateRange) Nights() int {
	return int(day(r.End).Sub(day(r.Start)).Hours() / 24)
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}
