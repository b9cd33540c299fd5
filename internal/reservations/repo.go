package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const reservationColumns = `r.id, r.user_id, r.office_id, r.price, r.status, r.start_date, r.end_date, r.created_at, r.updated_at`

func (r *Repo) FindOffice(ctx context.Context, id int64) (Office, error) {
	var o Office
	var approval int16
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, title, price_per_day, monthly_discount, approval_status, hidden
		FROM offices WHERE id=$1 AND deleted_at IS NULL`, id).
		Scan(&o.ID, &o.UserID, &o.Title, &o.PricePerDay, &o.MonthlyDiscount, &approval, &o.Hidden)
	if errors.Is(err, pgx.ErrNoRows) {
		return Office{}, ErrOfficeNotFound
	}
	if err != nil {
		return Office{}, fmt.Errorf("find office %d: %w", id, err)
	}
	o.ApprovalStatus = ApprovalStatus(approval)
	return o, nil
}

// HasActiveConflict is served by the (office_id, status, start_date, end_date) index.
func (r *Repo) HasActiveConflict(ctx context.Context, officeID int64, candidate DateRange) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE office_id=$1 AND status=$2 AND start_date <= $4 AND end_date >= $3
		)`, officeID, int16(StatusActive), candidate.Start, candidate.End).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("conflict check office %d: %w", officeID, err)
	}
	return exists, nil
}

// CreateReservation inserts res and fills in ID and timestamps.
func (r *Repo) CreateReservation(ctx context.Context, res *Reservation) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO reservations(user_id, office_id, price, status, start_date, end_date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`,
		res.UserID, res.OfficeID, res.Price, int16(res.Status), res.StartDate, res.EndDate,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *Repo) GetReservation(ctx context.Context, id int64) (Reservation, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations r WHERE r.id=$1`, id)
	res, err := scanReservation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, ErrReservationNotFound
	}
	if err != nil {
		return Reservation{}, fmt.Errorf("get reservation %d: %w", id, err)
	}
	return res, nil
}

// ListReservations applies only the filter fields that are set.
func (r *Repo) ListReservations(ctx context.Context, f Filter, limit, offset int) ([]Reservation, int64, error) {
	where, args := buildWhere(f)

	var total int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM reservations r JOIN offices o ON o.id = r.office_id`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	args = append(args, limit, offset)
	q := fmt.Sprintf(`SELECT %s FROM reservations r JOIN offices o ON o.id = r.office_id%s ORDER BY r.id LIMIT $%d OFFSET $%d`,
		reservationColumns, where, len(args)-1, len(args))
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	out := make([]Reservation, 0, limit)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, res)
	}
	return out, total, rows.Err()
}

func (r *Repo) CountActiveReservations(ctx context.Context, officeID int64) (int64, error) {
	var n int64
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE office_id=$1 AND status=$2`,
		officeID, int16(StatusActive)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active reservations office %d: %w", officeID, err)
	}
	return n, nil
}

func buildWhere(f Filter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.UserID != nil {
		conds = append(conds, "r.user_id = "+arg(*f.UserID))
	}
	if f.OfficeID != nil {
		conds = append(conds, "r.office_id = "+arg(*f.OfficeID))
	}
	if f.Status != nil {
		conds = append(conds, "r.status = "+arg(int16(*f.Status)))
	}
	if f.Range != nil {
		conds = append(conds, "r.start_date <= "+arg(f.Range.End), "r.end_date >= "+arg(f.Range.Start))
	}
	if f.HostID != nil {
		conds = append(conds, "o.user_id = "+arg(*f.HostID))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (Reservation, error) {
	var res Reservation
	var status int16
	err := row.Scan(&res.ID, &res.UserID, &res.OfficeID, &res.Price, &status,
		&res.StartDate, &res.EndDate, &res.CreatedAt, &res.UpdatedAt)
	res.Status = Status(status)
	return res, err
}
