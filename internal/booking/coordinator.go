package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ariefcatur/go-office-rentals.git/internal/logger"
	"github.com/ariefcatur/go-office-rentals.git/internal/reservations"
)

const (
	DefaultLockWait  = 3 * time.Second
	DefaultLockLease = 10 * time.Second

	releaseTimeout = 2 * time.Second
)

// Store is what a booking attempt reads and writes.
type Store interface {
	ConflictSource
	FindOffice(ctx context.Context, id int64) (reservations.Office, error)
	CreateReservation(ctx context.Context, res *reservations.Reservation) error
}

// Publisher is told about every reservation once its lock is released.
type Publisher interface {
	ReservationCreated(ctx context.Context, res reservations.Reservation, office reservations.Office) error
}

type BookRequest struct {
	OfficeID int64
	UserID   int64
	Range    reservations.DateRange
}

type Options struct {
	LockWait  time.Duration
	LockLease time.Duration
	Publisher Publisher
	Logger    *logger.Logger
}

type Coordinator struct {
	store     Store
	conflicts *ConflictChecker
	locker    Locker
	wait      time.Duration
	lease     time.Duration
	publisher Publisher
	log       *logger.Logger
	tracer    trace.Tracer
}

func NewCoordinator(store Store, locker Locker, opts Options) *Coordinator {
	if opts.LockWait <= 0 {
		opts.LockWait = DefaultLockWait
	}
	if opts.LockLease <= 0 {
		opts.LockLease = DefaultLockLease
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Coordinator{
		store:     store,
		conflicts: NewConflictChecker(store),
		locker:    locker,
		wait:      opts.LockWait,
		lease:     opts.LockLease,
		publisher: opts.Publisher,
		log:       opts.Logger.With("component", "booking"),
		tracer:    otel.Tracer("github.com/ariefcatur/go-office-rentals.git/internal/booking"),
	}
}

// Book turns a validated request into an active reservation, or explains why not.
// Domain refusals come back as *Rejection; anything else is an infrastructure error
// or the caller's context error.
func (c *Coordinator) Book(ctx context.Context, req BookRequest) (*reservations.Reservation, error) {
	ctx, span := c.tracer.Start(ctx, "booking.Book", trace.WithAttributes(
		attribute.Int64("office.id", req.OfficeID),
		attribute.Int64("user.id", req.UserID),
		attribute.String("booking.range", req.Range.String()),
	))
	defer span.End()

	res, office, err := c.book(ctx, req)
	if err != nil {
		if reason, ok := ReasonOf(err); ok {
			span.SetAttributes(attribute.String("booking.outcome", string(reason)))
			c.log.Info("Booking rejected",
				"office_id", req.OfficeID,
				"user_id", req.UserID,
				"range", req.Range.String(),
				"reason", reason,
			)
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.log.Error("Booking failed", "office_id", req.OfficeID, "user_id", req.UserID, "error", err)
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.String("booking.outcome", "Persisted"),
		attribute.Int64("reservation.id", res.ID),
		attribute.Int64("reservation.price", res.Price),
	)
	c.log.Info("Reservation created",
		"id", res.ID,
		"office_id", res.OfficeID,
		"user_id", res.UserID,
		"range", req.Range.String(),
		"price", res.Price,
	)

	if c.publisher != nil {
		if err := c.publisher.ReservationCreated(ctx, *res, office); err != nil {
			c.log.Warn("Failed to publish reservation event", "id", res.ID, "error", err)
		}
	}
	return res, nil
}

func (c *Coordinator) book(ctx context.Context, req BookRequest) (*reservations.Reservation, reservations.Office, error) {
	office, err := c.store.FindOffice(ctx, req.OfficeID)
	if errors.Is(err, reservations.ErrOfficeNotFound) {
		return nil, office, reject(InvalidOffice)
	}
	if err != nil {
		return nil, office, fmt.Errorf("find office: %w", err)
	}

	if office.UserID == req.UserID {
		return nil, office, reject(SelfBookingNotAllowed)
	}
	if req.Range.NumberOfDays() < reservations.MinimumStayDays {
		return nil, office, reject(StayTooShort)
	}

	key := LockKey(office.ID)
	guard, err := c.locker.Acquire(ctx, key, c.wait, c.lease)
	if errors.Is(err, ErrLockTimeout) {
		return nil, office, reject(LockTimedOut)
	}
	if err != nil {
		return nil, office, fmt.Errorf("acquire %s: %w", key, err)
	}
	acquired := time.Now()
	defer c.release(ctx, guard, key)

	// Work under the lock must not outlive the lease, or a second holder could interleave.
	cctx, cancel := context.WithDeadline(ctx, acquired.Add(c.lease))
	defer cancel()

	conflict, err := c.conflicts.HasConflict(cctx, office.ID, req.Range)
	if err != nil {
		return nil, office, err
	}
	if conflict {
		return nil, office, reject(DateRangeConflict)
	}

	res := &reservations.Reservation{
		UserID:    req.UserID,
		OfficeID:  office.ID,
		Price:     reservations.PriceFor(office, req.Range),
		Status:    reservations.StatusActive,
		StartDate: req.Range.Start,
		EndDate:   req.Range.End,
	}

	if err := cctx.Err(); err != nil {
		return nil, office, err
	}
	if err := c.store.CreateReservation(cctx, res); err != nil {
		return nil, office, fmt.Errorf("persist reservation: %w", err)
	}
	return res, office, nil
}

// release runs even when ctx is already cancelled.
func (c *Coordinator) release(ctx context.Context, guard Guard, key string) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := guard.Release(rctx); err != nil {
		c.log.Warn("Failed to release booking lock", "key", key, "error", err)
	}
}
