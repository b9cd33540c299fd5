package reservations

// PageSize is fixed for every reservation listing.
const PageSize = 20

// Filter selects reservations for listings. Nil fields are not applied.
type Filter struct {
	UserID   *int64
	OfficeID *int64
	Status   *Status
	Range    *DateRange
	// HostID keeps only reservations on offices owned by this user.
	HostID *int64
}

// Matches is the in-memory form of the filter. officeOwner is the owner of r's office,
// only consulted when HostID is set.
func (f Filter) Matches(r Reservation, officeOwner int64) bool {
	if f.UserID != nil && r.UserID != *f.UserID {
		return false
	}
	if f.OfficeID != nil && r.OfficeID != *f.OfficeID {
		return false
	}
	if f.Status != nil && r.Status != *f.Status {
		return false
	}
	if f.Range != nil && !r.Range().Overlaps(*f.Range) {
		return false
	}
	if f.HostID != nil && officeOwner != *f.HostID {
		return false
	}
	return true
}

type Page struct {
	Data        []Reservation
	Total       int64
	CurrentPage int
	PerPage     int
	LastPage    int
}

// NormalizePage clamps page numbers below 1 to the first page.
func NormalizePage(page int) int {
	return max(1, page)
}

// Offset of the first row of a 1-based page.
func Offset(page int) int {
	return (NormalizePage(page) - 1) * PageSize
}

func NewPage(data []Reservation, total int64, page int) Page {
	last := int((total + PageSize - 1) / PageSize)
	if last < 1 {
		last = 1
	}
	if data == nil {
		data = []Reservation{}
	}
	return Page{
		Data:        data,
		Total:       total,
		CurrentPage: NormalizePage(page),
		PerPage:     PageSize,
		LastPage:    last,
	}
}
