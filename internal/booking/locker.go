package booking

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrLockTimeout is returned by Locker.Acquire when the wait bound passes first.
	ErrLockTimeout = errors.New("lock wait timed out")
	// ErrLeaseExpired is returned by Guard.Release when the lease ran out before release.
	ErrLeaseExpired = errors.New("lock lease expired before release")
)

// Locker hands out named exclusion tokens. Acquire blocks for at most wait and gives up
// early when ctx ends; the token is held for at most lease.
type Locker interface {
	Acquire(ctx context.Context, key string, wait, lease time.Duration) (Guard, error)
}

type Guard interface {
	Release(ctx context.Context) error
}

// LockKey names the lock that serialises bookings of one office.
func LockKey(officeID int64) string {
	return fmt.Sprintf("reservations_office:%d", officeID)
}
