// Package memstore keeps offices and reservations in memory. It implements the same
// contracts as the Postgres repo and filters with reservations.Filter.Matches.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/ariefcatur/go-office-rentals.git/internal/reservations"
)

type Store struct {
	mu           sync.RWMutex
	offices      map[int64]reservations.Office
	reservations []reservations.Reservation // ordered by ID
	nextID       int64
	now          func() time.Time
}

func New() *Store {
	return &Store{
		offices: make(map[int64]reservations.Office),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) PutOffice(o reservations.Office) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offices[o.ID] = o
}

// Seed stores res as given (any status), assigning an ID.
func (s *Store) Seed(res reservations.Reservation) reservations.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insert(&res)
	return res
}

func (s *Store) FindOffice(ctx context.Context, id int64) (reservations.Office, error) {
	if err := ctx.Err(); err != nil {
		return reservations.Office{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.offices[id]
	if !ok {
		return reservations.Office{}, reservations.ErrOfficeNotFound
	}
	return o, nil
}

func (s *Store) HasActiveConflict(ctx context.Context, officeID int64, candidate reservations.DateRange) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reservations {
		if r.OfficeID == officeID && r.Status == reservations.StatusActive && r.Range().Overlaps(candidate) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateReservation(ctx context.Context, res *reservations.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insert(res)
	return nil
}

func (s *Store) GetReservation(ctx context.Context, id int64) (reservations.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return reservations.Reservation{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reservations {
		if r.ID == id {
			return r, nil
		}
	}
	return reservations.Reservation{}, reservations.ErrReservationNotFound
}

func (s *Store) ListReservations(ctx context.Context, f reservations.Filter, limit, offset int) ([]reservations.Reservation, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []reservations.Reservation
	for _, r := range s.reservations {
		owner := s.offices[r.OfficeID].UserID
		if f.Matches(r, owner) {
			matched = append(matched, r)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []reservations.Reservation{}, total, nil
	}
	end := min(offset+limit, len(matched))
	out := make([]reservations.Reservation, end-offset)
	copy(out, matched[offset:end])
	return out, total, nil
}

func (s *Store) CountActiveReservations(ctx context.Context, officeID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, r := range s.reservations {
		if r.OfficeID == officeID && r.Status == reservations.StatusActive {
			n++
		}
	}
	return n, nil
}

func (s *Store) insert(res *reservations.Reservation) {
	s.nextID++
	now := s.now()
	res.ID = s.nextID
	res.CreatedAt, res.UpdatedAt = now, now
	s.reservations = append(s.reservations, *res)
}
