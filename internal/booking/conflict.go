package booking

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-office-rentals.git/internal/reservations"
)

type ConflictSource interface {
	HasActiveConflict(ctx context.Context, officeID int64, candidate reservations.DateRange) (bool, error)
}

// ConflictChecker answers whether a candidate range collides with an active reservation.
type ConflictChecker struct {
	src ConflictSource
}

func NewConflictChecker(src ConflictSource) *ConflictChecker {
	return &ConflictChecker{src: src}
}

func (c *ConflictChecker) HasConflict(ctx context.Context, officeID int64, candidate reservations.DateRange) (bool, error) {
	found, err := c.src.HasActiveConflict(ctx, officeID, candidate)
	if err != nil {
		return false, fmt.Errorf("conflict check: %w", err)
	}
	return found, nil
}
