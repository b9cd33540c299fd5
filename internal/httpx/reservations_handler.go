package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-office-rentals.git/internal/apperr"
	"github.com/ariefcatur/go-office-rentals.git/internal/booking"
	"github.com/ariefcatur/go-office-rentals.git/internal/logger"
	"github.com/ariefcatur/go-office-rentals.git/internal/redisx"
	"github.com/ariefcatur/go-office-rentals.git/internal/reservations"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type Booker interface {
	Book(ctx context.Context, req booking.BookRequest) (*reservations.Reservation, error)
}

type Lister interface {
	List(ctx context.Context, f reservations.Filter, page int) (reservations.Page, error)
	Get(ctx context.Context, id int64) (reservations.Reservation, error)
}

type OfficeReader interface {
	FindOffice(ctx context.Context, id int64) (reservations.Office, error)
	CountActiveReservations(ctx context.Context, officeID int64) (int64, error)
}

type ReservationsHandler struct {
	Booker  Booker
	Query   Lister
	Offices OfficeReader
	Redis   *redis.Client
	Log     *logger.Logger

	IdempotencyTTL time.Duration
	CountCacheTTL  time.Duration
	// RetryAfter is advertised when the office lock could not be taken in time.
	RetryAfter     time.Duration

	validate *validator.Validate
	now      func() time.Time
}

func (h *ReservationsHandler) Register(r chi.Router) {
	h.init()
	r.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Post("/reservations", h.create)
		r.Get("/reservations", h.listMine)
		r.Get("/reservations/{id}", h.show)
		r.Get("/host/reservations", h.listHosted)
		r.Get("/offices/{id}/reservations/count", h.countActive)
	})
}

func (h *ReservationsHandler) init() {
	if h.Log == nil {
		h.Log = logger.Nop()
	}
	if h.IdempotencyTTL <= 0 {
		h.IdempotencyTTL = redisx.TTLIdempotency
	}
	if h.CountCacheTTL <= 0 {
		h.CountCacheTTL = redisx.TTLCountCache
	}
	if h.RetryAfter <= 0 {
		h.RetryAfter = time.Second
	}
	if h.now == nil {
		h.now = time.Now
	}
	h.validate = newValidator()
}

func (h *ReservationsHandler) create(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidInput("invalid json"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, fieldErrors(validationMessages(err)))
		return
	}
	rng, err := reservations.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, fieldErrors(map[string][]string{"end_date": {"The end date must be a date after start date."}}))
		return
	}
	if !rng.Start.After(today(h.now())) {
		writeError(w, fieldErrors(map[string][]string{"start_date": {"The start date must be a date after today."}}))
		return
	}

	ctx := r.Context()

	// Fast-path idempotency: a replay returns the reservation created by the first call.
	var idemKey string
	if k := r.Header.Get(HeaderIdempotencyKey); k != "" {
		idemKey = fmt.Sprintf(redisx.KeyIdemReservationCreate, user, k)
		if res, ok := h.replay(ctx, idemKey); ok {
			w.Header().Set("Idempotent-Replayed", "true")
			writeJSON(w, http.StatusOK, dataResponse{Data: toResource(res)})
			return
		}
	}

	res, err := h.Booker.Book(ctx, booking.BookRequest{OfficeID: req.OfficeID, UserID: user, Range: rng})
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	if idemKey != "" {
		if err := h.Redis.Set(ctx, idemKey, res.ID, h.IdempotencyTTL).Err(); err != nil {
			h.Log.Warn("Failed to store idempotency key", "key", idemKey, "error", err)
		}
	}
	writeJSON(w, http.StatusCreated, dataResponse{Data: toResource(*res)})
}

func (h *ReservationsHandler) replay(ctx context.Context, key string) (reservations.Reservation, bool) {
	raw, err := h.Redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.Log.Warn("Idempotency lookup failed", "key", key, "error", err)
		}
		return reservations.Reservation{}, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return reservations.Reservation{}, false
	}
	res, err := h.Query.Get(ctx, id)
	if err != nil {
		h.Log.Warn("Idempotency key points to missing reservation", "key", key, "id", id, "error", err)
		return reservations.Reservation{}, false
	}
	return res, true
}

func (h *ReservationsHandler) writeBookingError(w http.ResponseWriter, err error) {
	if reason, ok := booking.ReasonOf(err); ok {
		if reason.Retryable() {
			w.Header().Set("Retry-After", strconv.Itoa(int(h.RetryAfter.Seconds())))
			writeError(w, apperr.LockTimeout(reason.Message()).WithDetails(map[string]any{"reason": string(reason)}))
			return
		}
		writeError(w, fieldErrors(map[string][]string{"office_id": {reason.Message()}}))
		return
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		writeError(w, apperr.Timeout("The booking could not be completed in time", err))
		return
	}
	writeError(w, err)
}

func (h *ReservationsHandler) listMine(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	f, page, ok := h.parseFilter(w, r, false)
	if !ok {
		return
	}
	f.UserID = &user
	h.writePage(w, r, f, page)
}

func (h *ReservationsHandler) listHosted(w http.ResponseWriter, r *http.Request) {
	host := userFrom(r.Context())
	f, page, ok := h.parseFilter(w, r, true)
	if !ok {
		return
	}
	f.HostID = &host
	h.writePage(w, r, f, page)
}

func (h *ReservationsHandler) writePage(w http.ResponseWriter, r *http.Request, f reservations.Filter, page int) {
	p, err := h.Query.List(r.Context(), f, page)
	if err != nil {
		writeError(w, apperr.Internal("Failed to list reservations", err))
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(p))
}

// parseFilter reads office_id, status, from_date/to_date, page and, for hosts, user_id.
func (h *ReservationsHandler) parseFilter(w http.ResponseWriter, r *http.Request, host bool) (reservations.Filter, int, bool) {
	q := r.URL.Query()
	var f reservations.Filter
	errs := map[string][]string{}

	intParam := func(name string) *int64 {
		raw := q.Get(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs[name] = append(errs[name], "The "+humanize(name)+" field must be an integer.")
			return nil
		}
		return &v
	}

	f.OfficeID = intParam("office_id")
	if host {
		f.UserID = intParam("user_id")
	}
	if st := intParam("status"); st != nil {
		s := reservations.Status(*st)
		if !s.Valid() {
			errs["status"] = append(errs["status"], "The selected status is invalid.")
		} else {
			f.Status = &s
		}
	}

	from, to := q.Get("from_date"), q.Get("to_date")
	switch {
	case from == "" && to == "":
	case from == "":
		errs["from_date"] = append(errs["from_date"], "The from date field is required when to date is present.")
	case to == "":
		errs["to_date"] = append(errs["to_date"], "The to date field is required when from date is present.")
	default:
		rng, err := reservations.ParseDateRange(from, to)
		if err != nil || !rng.End.After(rng.Start) {
			errs["to_date"] = append(errs["to_date"], "The to date must be a date after from date.")
		} else {
			f.Range = &rng
		}
	}

	page := 1
	if raw := q.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			page = v
		}
	}

	if len(errs) > 0 {
		writeError(w, fieldErrors(errs))
		return f, 0, false
	}
	return f, page, true
}

// show returns a reservation to its booker or to the host of its office.
func (h *ReservationsHandler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	user := userFrom(ctx)

	res, err := h.Query.Get(ctx, id)
	if errors.Is(err, reservations.ErrReservationNotFound) {
		writeError(w, apperr.NotFoundWithID("reservation", id))
		return
	}
	if err != nil {
		writeError(w, apperr.Internal("Failed to load reservation", err))
		return
	}
	if res.UserID != user {
		office, err := h.Offices.FindOffice(ctx, res.OfficeID)
		if err != nil || office.UserID != user {
			writeError(w, apperr.NotFoundWithID("reservation", id))
			return
		}
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: toResource(res)})
}

type countResponse struct {
	OfficeID          int64 `json:"office_id"`
	ReservationsCount int64 `json:"reservations_count"`
}

func (h *ReservationsHandler) countActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	// 1) cache
	key := fmt.Sprintf(redisx.KeyOfficeActiveCount, id)
	if n, err := h.Redis.Get(ctx, key).Int64(); err == nil {
		writeJSON(w, http.StatusOK, dataResponse{Data: countResponse{OfficeID: id, ReservationsCount: n}})
		return
	}

	// 2) fallback DB
	if _, err := h.Offices.FindOffice(ctx, id); err != nil {
		if errors.Is(err, reservations.ErrOfficeNotFound) {
			writeError(w, apperr.NotFoundWithID("office", id))
			return
		}
		writeError(w, apperr.Internal("Failed to load office", err))
		return
	}
	n, err := h.Offices.CountActiveReservations(ctx, id)
	if err != nil {
		writeError(w, apperr.Internal("Failed to count reservations", err))
		return
	}
	if err := h.Redis.Set(ctx, key, n, h.CountCacheTTL).Err(); err != nil {
		h.Log.Warn("Failed to cache reservation count", "key", key, "error", err)
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: countResponse{OfficeID: id, ReservationsCount: n}})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, apperr.InvalidInput("invalid id"))
		return 0, false
	}
	return id, true
}

func today(now time.Time) time.Time {
	return reservations.NewDateRange(now, now).Start
}
