package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/sportsched/internal/api/apierr"
	"github.com/mcoot/sportsched/internal/middleware"
)

// Recovery turns handler panics into a JSON INTERNAL_ERROR response.
// The writer is wrapped first so inner middleware shares it, and a
// response that has already started is left alone.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	recovery := middleware.Recovery(logger, apiPanicHandler)
	return func(next http.Handler) http.Handler {
		inner := recovery(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inner.ServeHTTP(middleware.NewResponseWriter(w), r)
		})
	}
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	if rw, ok := w.(*middleware.ResponseWriter); ok && rw.Written() {
		return
	}
	apierr.WriteError(w, apierr.NewInternalError())
}
