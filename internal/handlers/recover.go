package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/gdg-garage/event-registration-api/internal/apperrors"
)

// Recoverer is middleware.Recoverer with the JSON error body.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			middleware.PrintPrettyStack(rvr)
			writeJSON(w, http.StatusInternalServerError, &APIError{
				Category: apperrors.KindInternal.String(),
				Message:  msgServerError,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
