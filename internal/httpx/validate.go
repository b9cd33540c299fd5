package httpx

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type createReservationRequest struct {
	OfficeID  int64  `json:"office_id" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessages turns validator failures into per-field messages keyed by json name.
func validationMessages(err error) map[string][]string {
	out := map[string][]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["body"] = []string{err.Error()}
		return out
	}
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "The " + humanize(fe.Field()) + " field is required."
		case "datetime":
			msg = "The " + humanize(fe.Field()) + " field must match the format " + fe.Param() + "."
		case "gt":
			msg = "The " + humanize(fe.Field()) + " field must be a positive integer."
		default:
			msg = "The " + humanize(fe.Field()) + " field is invalid."
		}
		out[fe.Field()] = append(out[fe.Field()], msg)
	}
	return out
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
