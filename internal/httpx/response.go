package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ariefcatur/go-office-rentals.git/internal/apperr"
	"github.com/ariefcatur/go-office-rentals.git/internal/reservations"
)

type errorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type dataResponse struct {
	Data any `json:"data"`
}

type pageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

type pageResponse struct {
	Data []reservationResource `json:"data"`
	Meta pageMeta              `json:"meta"`
}

type reservationResource struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	OfficeID  int64     `json:"office_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Price     int64     `json:"price"`
	Status    int16     `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toResource(r reservations.Reservation) reservationResource {
	return reservationResource{
		ID:        r.ID,
		UserID:    r.UserID,
		OfficeID:  r.OfficeID,
		StartDate: r.StartDate.Format(reservations.DateLayout),
		EndDate:   r.EndDate.Format(reservations.DateLayout),
		Price:     r.Price,
		Status:    int16(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

func toPageResponse(p reservations.Page) pageResponse {
	data := make([]reservationResource, 0, len(p.Data))
	for _, r := range p.Data {
		data = append(data, toResource(r))
	}
	return pageResponse{
		Data: data,
		Meta: pageMeta{CurrentPage: p.CurrentPage, PerPage: p.PerPage, Total: p.Total, LastPage: p.LastPage},
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	e := apperr.As(err)
	msg := e.Message
	if e.HTTPStatus >= http.StatusInternalServerError && e.Code == apperr.CodeInternal {
		msg = "Internal server error"
	}
	writeJSON(w, e.HTTPStatus, errorResponse{Code: e.Code, Message: msg, Details: e.Details})
}

// fieldErrors is the {"errors": {"field": [messages]}} form used for every 422.
func fieldErrors(errs map[string][]string) *apperr.AppError {
	msg := "The given data was invalid."
	if len(errs) == 1 {
		for _, m := range errs {
			if len(m) > 0 {
				msg = m[0]
			}
		}
	}
	return apperr.New(apperr.CodeValidation, msg, http.StatusUnprocessableEntity).
		WithDetails(map[string]any{"errors": errs})
}
