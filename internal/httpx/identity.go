package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-office-rentals.git/internal/apperr"
)

// HeaderUserID carries the caller identity, set by the auth gateway in front of the API.
const HeaderUserID = "X-User-Id"

type userKey struct{}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, apperr.Unauthorized("Unauthenticated."))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, id)))
	})
}

func userFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userKey{}).(int64)
	return id
}
